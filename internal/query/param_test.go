package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamName(t *testing.T) {
	assert.Equal(t, "F_Person_Age_4", paramName("F", "Person", "Age", "4"))

	// underscores and non-ASCII letters never make two names meet
	assert.Equal(t, "R_Person_ABx9d8fceb1", paramName("R", "Person", "A_B"))
	assert.Equal(t, "R_PersonAx75f3eb44_B", paramName("R", "Person_A", "B"))
	assert.Equal(t, "R_T_Straex1dc32e38", paramName("R", "T", "Straße"))
	assert.Equal(t, "R_T_Strax45c2ac14", paramName("R", "T", "Straе"))
}

func TestParamsDuplicate(t *testing.T) {
	_, dup := Params{{"A", 1}, {"B", 2}}.Duplicate()
	assert.False(t, dup)

	name, dup := Params{{"A", 1}, {"B", 2}, {"A", 3}}.Duplicate()
	assert.True(t, dup)
	assert.Equal(t, "A", name)
}
