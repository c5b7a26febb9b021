package translator

import (
	"context"
	"testing"

	shader "github.com/richinsley/goquad/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageName(t *testing.T) {
	assert.Equal(t, "vertex", stageName(shader.StageVertex))
	assert.Equal(t, "fragment", stageName(shader.StageFragment))
}

func TestLookup(t *testing.T) {
	r := &Result{Names: map[string]string{"u_Color": "_uu_Color", "empty": ""}}
	assert.Equal(t, "_uu_Color", r.Lookup("u_Color"))
	assert.Equal(t, "position", r.Lookup("position"))
	assert.Equal(t, "empty", r.Lookup("empty"))
}

func TestTranslateBuiltin(t *testing.T) {
	if testing.Short() {
		t.Skip("starts the wasm shader translator")
	}

	res, err := Translate(context.Background(), shader.Default(true), false)
	require.NoError(t, err)
	assert.True(t, res.Source.Complete())
	assert.Contains(t, res.Names, "u_Color")
}
