// Package icon handles the flag-and-gender badge icons shown next to each
// pronunciation link. The compositor pre-renders one SVG per (gender,
// country) combination found in a dump; the resolver later maps a
// record's gender and country back to the best matching icon file.
package icon
