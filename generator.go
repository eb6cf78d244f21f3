package refcrawl

// Generator identifies the authoring toolchain that produced a
// specification document. The generator determines which definition
// markup conventions the document follows and whether it needs
// client-side rendering before extraction.
type Generator string

// Known generators.
const (
	GeneratorUnknown  Generator = ""
	GeneratorBikeshed Generator = "bikeshed"
	GeneratorReSpec   Generator = "respec"
	GeneratorWattsi   Generator = "wattsi"
)

// GeneratorDetector identifies the generator from HTML content.
type GeneratorDetector interface {
	// Detect analyzes HTML and returns the identified generator.
	// Returns GeneratorUnknown if the generator cannot be determined.
	Detect(html string) Generator
}
