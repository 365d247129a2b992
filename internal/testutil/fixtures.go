package testutil

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// SampleClients is a registry fixture with extra profile fields.
const SampleClients = `[
  {"cid": "CID-1001", "name": "Amara Perera", "email": "amara@example.com", "branch": "Colombo"},
  {"cid": "CID-1002", "name": "Nuwan Silva", "email": "nuwan@example.com"}
]`

// SampleRawRecord is a well-formed raw client record for CID-1001.
const SampleRawRecord = `{
  "cid": "CID-1001",
  "paymentHistoryLog": [
    {"period": "2026-01", "onTimePayments": 10, "latePayments": 2},
    {"period": "2026-02", "onTimePayments": 8, "latePayments": 0}
  ],
  "utilizationData": {"totalUsed": 2500, "totalCreditLimit": 10000},
  "creditHistoryStartDate": "2022-10-01",
  "creditAccounts": [
    {"accountId": "A1", "type": "credit_card"},
    {"accountId": "A2", "type": "auto_loan"},
    {"accountId": "A3", "type": "mortgage"}
  ],
  "loanHistory": [
    {"loanId": "L1", "dateApplied": "2026-09-01"},
    {"loanId": "L2", "dateApplied": "2024-01-15"}
  ]
}`

// OfficerPassword is the clear-text secret for every officer fixture.
const OfficerPassword = "s3cret-pass"

// OfficersJSON builds an officer list fixture with bcrypt hashes of
// OfficerPassword: "jdoe" is Active, "asmith" is Inactive.
func OfficersJSON(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(OfficerPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	return `[
  {"username": "jdoe", "password": "` + string(hash) + `", "status": "Active", "fullName": "Jane Doe", "role": "senior"},
  {"username": "asmith", "password": "` + string(hash) + `", "status": "Inactive", "fullName": "Alex Smith"}
]`
}
