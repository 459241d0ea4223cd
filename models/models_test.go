package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestDeleteCascadesFromParents(t *testing.T) {
	cache := &sync.Map{}
	tests := []struct {
		model    interface{}
		relation string
	}{
		{&Candidate{}, "Applications"},
		{&JobPosition{}, "Applications"},
		{&Application{}, "Interviews"},
	}
	for _, tt := range tests {
		t.Run(tt.relation, func(t *testing.T) {
			sch, err := schema.Parse(tt.model, cache, schema.NamingStrategy{})
			require.NoError(t, err)
			rel := sch.Relationships.Relations[tt.relation]
			require.NotNil(t, rel)
			constraint := rel.ParseConstraint()
			require.NotNil(t, constraint)
			assert.Equal(t, "CASCADE", constraint.OnDelete)
		})
	}
}
