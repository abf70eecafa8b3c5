package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradematch_backend/internal/models"
)

func TestIsAdmin_FlagOnly(t *testing.T) {
	assert.True(t, IsAdmin(&models.User{IsAdmin: true}))
	assert.False(t, IsAdmin(&models.User{IsAdmin: false, Role: models.UserRole("admin")}))
	assert.False(t, IsAdmin(nil))
}

func TestOwnsJob(t *testing.T) {
	user := &models.User{BaseModel: models.BaseModel{ID: "u1"}}

	assert.True(t, OwnsJob(user, &models.Job{ContractorID: "u1"}))
	assert.False(t, OwnsJob(user, &models.Job{ContractorID: "u2"}))
	assert.False(t, OwnsJob(&models.User{}, &models.Job{}), "empty ids never match")
	assert.False(t, OwnsJob(nil, &models.Job{ContractorID: "u1"}))
	assert.False(t, OwnsJob(user, nil))
}

func TestIsJobParticipant(t *testing.T) {
	job := &models.Job{
		ContractorID:             "c1",
		AssignedSubcontractorID:  strPtr("s1"),
		ConfirmedSubcontractorID: strPtr("s2"),
	}

	assert.True(t, IsJobParticipant(job, "c1"))
	assert.True(t, IsJobParticipant(job, "s1"))
	assert.True(t, IsJobParticipant(job, "s2"))
	assert.False(t, IsJobParticipant(job, "x"))
	assert.False(t, IsJobParticipant(job, ""))
	assert.False(t, IsJobParticipant(nil, "c1"))
}

func TestCounterparty(t *testing.T) {
	job := &models.Job{ContractorID: "c1", AssignedSubcontractorID: strPtr("s1")}

	other, ok := Counterparty(job, "c1")
	assert.True(t, ok)
	assert.Equal(t, "s1", other)

	job.ConfirmedSubcontractorID = strPtr("s2")
	other, ok = Counterparty(job, "c1")
	assert.True(t, ok)
	assert.Equal(t, "s2", other)

	other, ok = Counterparty(job, "s1")
	assert.True(t, ok)
	assert.Equal(t, "c1", other)

	_, ok = Counterparty(&models.Job{ContractorID: "c1"}, "c1")
	assert.False(t, ok)

	_, ok = Counterparty(job, "x")
	assert.False(t, ok)
}
