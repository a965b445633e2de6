// Package site holds the configuration of the Pabpereza documentation and blog
// site as typed records, together with the few values derived from them: the
// footer copyright line, the JSON-LD Organization payload, and the AdSense
// script and metadata tags.
//
// A Config is built once per evaluation (see Default) and is not mutated
// afterwards. Rendering it into the generator's format lives in the
// generator package.
package site
