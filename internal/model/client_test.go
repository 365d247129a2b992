package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PreservesProfileFields(t *testing.T) {
	input := `{"cid":"CID-7","name":"Kavya","phone":"+94 77 000 0000","tags":["new"]}`

	var c Client
	require.NoError(t, json.Unmarshal([]byte(input), &c))
	assert.Equal(t, "CID-7", c.CID)
	assert.Equal(t, "Kavya", c.Name)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestClient_MarshalWithoutStoredEntry(t *testing.T) {
	out, err := json.Marshal(Client{CID: "CID-8", Name: "Ruwan"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cid":"CID-8","name":"Ruwan"}`, string(out))
}

func TestClientRecord_AbsentCollectionsStayNil(t *testing.T) {
	var rec ClientRecord
	require.NoError(t, json.Unmarshal([]byte(`{"cid":"CID-9","creditAccounts":[]}`), &rec))

	assert.Nil(t, rec.PaymentHistoryLog)
	assert.Nil(t, rec.UtilizationData)
	assert.Nil(t, rec.LoanHistory)
	assert.NotNil(t, rec.CreditAccounts)
	assert.Empty(t, rec.CreditAccounts)
	assert.True(t, rec.CreditHistoryStartDate.IsZero())
}

func TestOfficerAccount(t *testing.T) {
	input := `{"username":"jdoe","password":"$2a$10$hash","status":"ACTIVE","fullName":"Jane Doe"}`

	var o OfficerAccount
	require.NoError(t, json.Unmarshal([]byte(input), &o))
	assert.Equal(t, "jdoe", o.Username)
	assert.Equal(t, "$2a$10$hash", o.PasswordHash)
	assert.True(t, o.IsActive())

	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))

	redacted, err := o.Redacted()
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"jdoe","status":"ACTIVE","fullName":"Jane Doe"}`, string(redacted))

	assert.False(t, OfficerAccount{Status: "inactive"}.IsActive())
	assert.False(t, OfficerAccount{}.IsActive())
}

func TestDocumentType_IsValid(t *testing.T) {
	assert.True(t, DocumentApplication.IsValid())
	assert.True(t, DocumentAgreement.IsValid())
	assert.False(t, DocumentType("Application").IsValid())
	assert.False(t, DocumentType("").IsValid())
}
