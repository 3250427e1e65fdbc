package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/professionals/internal/domain"
)

func TestProfessionalDecode(t *testing.T) {
	body := `[
		{"id": 1, "full_name": "Ada", "email": null, "phone": "555-0100",
		 "job_title": "", "company_name": "", "source": "direct",
		 "created_at": "2024-01-01T00:00:00Z"},
		{"id": "b7", "full_name": "Grace", "email": "grace@example.com", "phone": null,
		 "job_title": "Admiral", "company_name": "Navy", "source": "internal",
		 "created_at": "2024-03-05T10:11:12.123456+00:00"}
	]`

	var got []domain.Professional
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, 2)

	assert.Equal(t, domain.ID("1"), got[0].ID)
	assert.Empty(t, got[0].Email)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got[0].CreatedAt.UTC())

	assert.Equal(t, domain.ID("b7"), got[1].ID)
	assert.Empty(t, got[1].Phone)
	assert.Equal(t, domain.SourceInternal, got[1].Source)
}

func TestIDMarshal(t *testing.T) {
	b, err := json.Marshal(domain.ID("12"))
	require.NoError(t, err)
	assert.Equal(t, "12", string(b))

	b, err = json.Marshal(domain.ID("007"))
	require.NoError(t, err)
	assert.Equal(t, `"007"`, string(b))
}
