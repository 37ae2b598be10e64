// SPDX-License-Identifier: MPL-2.0

// Package descriptor provides types and parsing for project.json project
// descriptors.
//
// A descriptor is a JSON object (JSONC comments and trailing commas are
// tolerated) stored in each project directory. Parse turns file bytes into a
// Raw object; FromRaw extracts the typed fields without rejecting anything;
// Validate applies the shape rules a descriptor must satisfy to be listed in
// the manifest. Keeping the three steps apart lets callers that only need a
// slug (entry resolution) accept descriptors that the manifest rejects.
package descriptor
