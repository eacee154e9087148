// Package resolve turns matched tags into HTML fragments.
//
// Each tag kind has one Resolver. A Registry maps kinds to resolvers and is
// the only dispatch point; adding a kind means registering a new Resolver,
// not extending a conditional chain.
//
// Fragments never contain blank lines, so a fragment placed on its own line
// stays a single raw HTML block when the slide is later rendered as markdown.
package resolve
