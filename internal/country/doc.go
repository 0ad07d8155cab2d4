// Package country maps the free-text country names found in Forvo metadata
// to ISO country codes and flag images. It covers both sides of the
// mapping: resolving names against a restcountries-style countries.json
// dump (including downloading the matching circle-flag SVGs), and loading
// the resulting country_mappings.json for use by the icon resolver during
// a database build.
package country
