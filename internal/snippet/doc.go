// Package snippet renders the HTML pronunciation block embedded into each
// dictionary entry: one clickable sound:// link per recording, badged
// with the contributor's flag-and-gender icon and vote count. Output is
// byte-deterministic for a given record order so that repeated builds
// produce identical stores.
package snippet
