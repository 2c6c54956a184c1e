// Package target turns a GitHub web URL into the owner, repository and
// optional pull-request number that an analysis run works on.
//
// [Parse] never fails loudly: an unusable URL is reported through its
// boolean result so callers can turn it into a regular finding. [Validate]
// is the stricter pre-check used by interactive and HTTP front ends.
package target
