package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/loansiya/internal/model"
)

// Fixed object keys.
const (
	RegistryKey = "clients/clients.json"
	OfficersKey = "loan_officers.json"
)

// dayLayout partitions documents by calendar day.
const dayLayout = "2006-01-02"

// RawRecordKey is where upstream systems drop a client's raw financial record.
func RawRecordKey(cid string) string {
	return "client-metrics/" + cid + "-raw.json"
}

// ProcessedMetricsKey holds the derived metrics for a client.
func ProcessedMetricsKey(cid string) string {
	return "client-metrics/processed/" + cid + ".json"
}

// ScoreKey holds the latest score result for a client.
func ScoreKey(cid string) string {
	return "scores/" + cid + ".json"
}

// DocumentKey is the location of a JSON loan document written on day.
func DocumentKey(cid string, day time.Time, docType model.DocumentType) string {
	return fmt.Sprintf("clients/%s/%s/%s", cid, day.Format(dayLayout), DocumentFileName(docType))
}

// DocumentFileName names a JSON loan document.
func DocumentFileName(docType model.DocumentType) string {
	return "loan-" + string(docType) + ".json"
}

// UploadKey is the location of an uploaded binary document written on day.
func UploadKey(cid string, day time.Time, fileName string) string {
	return fmt.Sprintf("documents/%s/%s/%s", cid, day.Format(dayLayout), fileName)
}

// UploadFileName builds the stored name for an upload: the lowercased type
// label plus the original file's extension. A name without a dot is used
// whole as the extension.
func UploadFileName(fileType, originalName string) string {
	ext := originalName
	if i := strings.LastIndex(originalName, "."); i >= 0 {
		ext = originalName[i+1:]
	}
	return strings.ToLower(fileType) + "." + ext
}
