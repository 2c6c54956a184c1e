// Package gitctx reads metadata from the git repository in the working
// directory by shelling out to git.
//
// [DetectRepo] resolves the GitHub owner and repository of the origin
// remote so a review can target the current checkout without typing its URL.
package gitctx
