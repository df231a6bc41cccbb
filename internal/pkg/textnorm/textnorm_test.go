package textnorm_test

import (
	"testing"

	"statefin-backend/internal/pkg/textnorm"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	decomposed := "\u0438\u0306"
	assert.Equal(t, "\u0439", textnorm.Name(decomposed))
	assert.Equal(t, "US Dollar", textnorm.Name("  US   Dollar "))
	assert.Nil(t, textnorm.NamePtr(nil))
}

func TestSearchTerm(t *testing.T) {
	assert.Equal(t, "доллар сша", textnorm.SearchTerm(" Доллар  США"))
	assert.Equal(t, `%50!%!_off%`, textnorm.LikePattern("50%_OFF"))
}
