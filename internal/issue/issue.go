// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ProjectNotFoundId Id = iota + 1
	ProjectInvalidId
	CompilerFailedId
	ImagePackMissingId
	DuplicateEntryId
	ArchiveWriteFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type (
	MarkdownMsg string

	HttpLink string

	// Issue is a Markdown guide shown when a build fails in a known way.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guide with a glamour style ("auto", "dark", "light",
// "notty" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# No mod project found!

The directory has no ` + "`dolmod.cue`" + ` file.

## Things you can try:
- Create one:
~~~
$ dolpack init --name MyMod --version 0.1.0
~~~
- Or point the command at the project directory:
~~~
$ dolpack build path/to/mod
~~~`,
		extLinks: []HttpLink{"https://github.com/Lyoko-Jeremie/sugarcube-2-ModLoader"},
	}

	projectInvalidIssue = &Issue{
		id: ProjectInvalidId,
		mdMsg: `
# The project file is invalid!

` + "`dolmod.cue`" + ` failed validation.

## Things you can try:
- Check the field named in the error message
- Paths must be relative and stay inside the project
- Image packs need a ` + "`beautySelector`" + ` plugin:
~~~cue
plugins: [{kind: "beautySelector"}]
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	compilerFailedIssue = &Issue{
		id: CompilerFailedId,
		mdMsg: `
# The TypeScript build failed!

The compiler exited with a non-zero status. Its output is printed above.

## Things you can try:
- Run the workspace build by hand:
~~~
$ yarn workspace mod-MyMod.script tsc --listEmittedFiles
~~~
- Make sure ` + "`yarn install`" + ` ran in the project root
- Override the command in your config:
~~~cue
compiler: command: "npx tsc -p src/typescript.d/$UNIT.d"
~~~`,
	}

	imagePackMissingIssue = &Issue{
		id: ImagePackMissingId,
		mdMsg: `
# An image pack is missing!

An enabled image pack has no directory under ` + "`img.d/`" + `.

## Things you can try:
- Clone the pack from its ` + "`repoUrl`" + ` into ` + "`img.d/<name>`" + `
- Or disable it:
~~~cue
imagePacks: [{name: "MyPack", enable: false}]
~~~`,
	}

	duplicateEntryIssue = &Issue{
		id: DuplicateEntryId,
		mdMsg: `
# Two files want the same archive path!

Every entry of a mod package must be unique.

## Things you can try:
- Remove the file from one of the two sources named in the error
- Narrow an asset rule with ` + "`include`" + ` or ` + "`exclude`" + ` globs
- Delete a stale ` + "`imgFileList.json`" + ` from the image pack directory; it is generated`,
	}

	archiveWriteFailedIssue = &Issue{
		id: ArchiveWriteFailedId,
		mdMsg: `
# The package could not be written!

## Things you can try:
- Check that the output directory is writable
- Check free disk space
- Choose another output directory:
~~~
$ dolpack build --output /tmp/dist
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show the effective configuration:
~~~
$ dolpack config show
~~~
- Write a fresh default file:
~~~
$ dolpack config init
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

dolpack could not read or write a file.

## Things you can try:
- Check the permissions of the project and build directories
- Make sure no other program holds the archive open`,
	}

	issues = map[Id]*Issue{
		projectNotFoundIssue.Id():    projectNotFoundIssue,
		projectInvalidIssue.Id():     projectInvalidIssue,
		compilerFailedIssue.Id():     compilerFailedIssue,
		imagePackMissingIssue.Id():   imagePackMissingIssue,
		duplicateEntryIssue.Id():     duplicateEntryIssue,
		archiveWriteFailedIssue.Id(): archiveWriteFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
