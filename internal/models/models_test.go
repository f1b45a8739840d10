package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, 0.0, ProgressPercentage(30, nil))
	assert.Equal(t, 0.0, ProgressPercentage(30, intPtr(0)))
	assert.Equal(t, 50.0, ProgressPercentage(30, intPtr(60)))
	assert.Equal(t, 100.0, ProgressPercentage(90, intPtr(60)))
	assert.Equal(t, 0.0, ProgressPercentage(-5, intPtr(60)))
}

func TestIsCompleted(t *testing.T) {
	assert.False(t, IsCompleted(100, nil))
	assert.False(t, IsCompleted(59, intPtr(60)))
	assert.True(t, IsCompleted(60, intPtr(60)))
}

func TestCourseAggregates(t *testing.T) {
	empty := CourseAggregates{}
	assert.Nil(t, empty.AverageRating())
	assert.Equal(t, 0.0, empty.DurationMinutes())

	agg := CourseAggregates{RatingCount: 2, RatingSum: 6, DurationSeconds: 125}
	avg := agg.AverageRating()
	require.NotNil(t, avg)
	assert.Equal(t, 3.0, *avg)
	assert.Equal(t, 2.1, agg.DurationMinutes())
}

func TestRoleAndPrincipal(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.False(t, Role("admin").Valid())

	var anon *Principal
	assert.False(t, anon.IsTeacher())
	assert.False(t, anon.Authenticated())

	claims := &JWTClaims{UserID: "u1", Username: "ana", Role: RoleTeacher}
	p := claims.Principal()
	assert.True(t, p.IsTeacher())
	assert.True(t, p.Authenticated())
}
