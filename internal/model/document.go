package model

// DocumentType labels a JSON loan document.
type DocumentType string

// Accepted JSON document types.
const (
	DocumentApplication DocumentType = "application"
	DocumentAgreement   DocumentType = "agreement"
)

// IsValid reports whether t is one of the accepted JSON document types.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentApplication, DocumentAgreement:
		return true
	}
	return false
}

// DocumentReceipt is returned after a JSON document is stored.
type DocumentReceipt struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// UploadReceipt is returned after a binary document is stored.
type UploadReceipt struct {
	Success    bool   `json:"success"`
	FileURL    string `json:"fileUrl"`
	UploadedTo string `json:"uploadedTo"`
}
