// Package translator rewrites WebGL2 shader sources into the GLSL dialect of
// the active context.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	shader "github.com/richinsley/goquad/shader"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first
// use.
func GetTranslator(ctx context.Context) (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(ctx)
	})
	if translatorErr != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", translatorErr)
	}
	return translator, nil
}

func stageName(stage shader.Stage) string {
	if stage == shader.StageVertex {
		return "vertex"
	}
	return "fragment"
}

// Result is a translated shader pair.
type Result struct {
	Source shader.Source
	// Names maps declared variable names to the names the translator emitted.
	Names map[string]string
}

// Lookup returns the emitted name for a declared variable, or name itself
// when the translator left it alone.
func (r *Result) Lookup(name string) string {
	if mapped, ok := r.Names[name]; ok && mapped != "" {
		return mapped
	}
	return name
}

// Translate converts both stages of src, written as WebGL2 (#version 300 es),
// into desktop GLSL 4.10 or, for GLES contexts, ESSL.
func Translate(ctx context.Context, src shader.Source, isGLES bool) (*Result, error) {
	t, err := GetTranslator(ctx)
	if err != nil {
		return nil, err
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}

	out := &Result{
		Source: shader.Source{Dropped: src.Dropped},
		Names:  make(map[string]string),
	}
	for _, stage := range []shader.Stage{shader.StageVertex, shader.StageFragment} {
		res, err := t.TranslateShader(src.Stage(stage), stageName(stage), gst.ShaderSpecWebGL2, outputFormat)
		if err != nil {
			return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
		}
		if stage == shader.StageVertex {
			out.Source.Vertex = res.Code
		} else {
			out.Source.Fragment = res.Code
		}
		for name, v := range res.Variables {
			out.Names[name] = v.MappedName
		}
	}
	return out, nil
}
