package core

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestShortlists(t *testing.T) {
	lists := Shortlists{}

	assert.NoError(t, lists.Add("First Playing XI", "Virat Kohli"))
	assert.NoError(t, lists.Add("First Playing XI", "Jasprit Bumrah"))
	assert.NoError(t, lists.Add("Second Playing XI", "Virat Kohli"))

	err := lists.Add("First Playing XI", "Virat Kohli")
	check.True(t, errors.Is(err, ErrAlreadyListed))

	check.Equal(t, []string{"Virat Kohli", "Jasprit Bumrah"}, lists.Names("First Playing XI"))
	check.Equal(t, []string{"First Playing XI", "Second Playing XI"}, lists.Lists())

	lists.Flush("First Playing XI")
	check.Equal(t, 0, len(lists.Names("First Playing XI")))
	check.Equal(t, 1, len(lists.Names("Second Playing XI")))

	// flushed list can be refilled
	assert.NoError(t, lists.Add("First Playing XI", "Virat Kohli"))
}

func TestShortlists_Rejects(t *testing.T) {
	lists := Shortlists{}
	check.True(t, errors.Is(lists.Add("", "X"), ErrValidation))
	check.True(t, errors.Is(lists.Add("XI", " "), ErrValidation))
	check.Equal(t, 0, len(lists.Lists()))

	lists.Flush("missing")
	check.Equal(t, 0, len(lists.Lists()))
}
