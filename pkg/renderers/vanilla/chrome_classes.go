package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassDocument    ChromeClass = "docforge-document"
	ClassPrintRegion ChromeClass = "docforge-print-region"
	ClassNoPrint     ChromeClass = "docforge-no-print"
	ClassSection     ChromeClass = "docforge-section"
	ClassField       ChromeClass = "docforge-field"
	ClassValue       ChromeClass = "docforge-value"
	ClassComputed    ChromeClass = "docforge-computed"
	ClassMultiline   ChromeClass = "docforge-multiline"
	ClassErrors      ChromeClass = "docforge-field-errors"
)
