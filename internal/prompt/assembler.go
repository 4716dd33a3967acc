// Package prompt assembles the ordered multimodal payload for an analysis.
package prompt

import "github.com/agrolens/croplens/internal/library"

// Separator strings framing the payload. The model is conditioned by the
// exact sequence, so these are part of the prompt contract.
const (
	inputImageSeparator = "\n\nINPUT IMAGE:"
	examplesSeparator   = "\n\nUse the following examples to match the crop in the input image:\n"
)

// Part is one element of a multimodal payload: either text or an image.
type Part struct {
	Text string
	Data []byte
	MIME string
}

// IsImage reports whether the part carries image bytes.
func (p Part) IsImage() bool {
	return len(p.Data) > 0
}

// TextPart creates a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart creates an image part.
func ImagePart(data []byte, mime string) Part {
	return Part{Data: data, MIME: mime}
}

// Assemble builds the ordered payload for one analysis:
//
//	instruction, "INPUT IMAGE:" separator, input image, examples separator,
//	then for each reference example its label followed by its image.
//
// The order is preserved exactly as given; entries are never reordered or
// deduplicated. Assemble performs no I/O.
func Assemble(instruction string, input []byte, inputMIME string, refs []library.Example) []Part {
	parts := make([]Part, 0, 4+2*len(refs))
	parts = append(parts,
		TextPart(instruction),
		TextPart(inputImageSeparator),
		ImagePart(input, inputMIME),
		TextPart(examplesSeparator),
	)
	for _, ref := range refs {
		parts = append(parts, TextPart(ref.Label), ImagePart(ref.Data, ref.MIME))
	}
	return parts
}
