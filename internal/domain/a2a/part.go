package a2a

// PartKind discriminates the payload carried by a Part.
type PartKind string

const (
	PartText PartKind = "text"
	PartFile PartKind = "file"
	PartData PartKind = "data"
)

// Part is one typed payload unit within an artifact or message.
// Exactly one of Text, File or Data is populated, selected by Kind.
type Part struct {
	Kind PartKind       `json:"kind"`
	Text string         `json:"text,omitempty"`
	File *FilePayload   `json:"file,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// FilePayload carries a file either inline (Bytes, base64 on the wire)
// or by reference (URI).
type FilePayload struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Bytes    string `json:"bytes,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// FilePart builds a file part.
func FilePart(f FilePayload) Part {
	return Part{Kind: PartFile, File: &f}
}

// DataPart builds a structured-data part.
func DataPart(data map[string]any) Part {
	return Part{Kind: PartData, Data: data}
}
