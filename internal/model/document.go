package model

// Document is a single source text unit: one PDF page or one section of the
// static manual. Documents are read once during ingestion and discarded after
// chunking; only the provenance fields survive on the chunks cut from them.
type Document struct {
	Text    string `json:"-"`
	File    string `json:"file"`
	Page    int    `json:"page"`
	Section string `json:"section,omitempty"`
}

// StaticFile is the origin identifier used for documents that come from the
// built-in manual rather than a PDF.
const StaticFile = "static_manual"

// Chunk is a bounded-length segment of a Document, the unit of retrieval.
type Chunk struct {
	Text    string `json:"content"`
	File    string `json:"file"`
	Page    int    `json:"page"`
	Section string `json:"section,omitempty"`
	Seq     int    `json:"seq"`
	Length  int    `json:"text_length"`
}

// Meta returns the chunk's provenance without its text.
func (c Chunk) Meta() ChunkMeta {
	return ChunkMeta{File: c.File, Page: c.Page, Section: c.Section, Seq: c.Seq, Length: c.Length}
}

// ChunkMeta is the provenance carried alongside each indexed vector.
type ChunkMeta struct {
	File    string `json:"file"`
	Page    int    `json:"page"`
	Section string `json:"section,omitempty"`
	Seq     int    `json:"seq"`
	Length  int    `json:"text_length"`
}

// RetrievedDocument is one similarity-search hit.
type RetrievedDocument struct {
	Content  string    `json:"content"`
	Metadata ChunkMeta `json:"metadata"`
	Score    float64   `json:"score"`
}
