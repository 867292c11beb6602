// SPDX-License-Identifier: MPL-2.0

// Package modpack models a mod package: where each asset lives on the build
// host, where it lands in the package, and the boot.json manifest that lists
// every asset by role.
//
// A packaging run creates a Manifest, fills its categories with CopySpecs
// found by Discover, adds plugin declarations and dependencies, renders it
// with a Serializer and derives the archive layout with BuildPlan. Archive
// paths in the plan are exactly the paths written into the manifest.
package modpack
