package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	once       sync.Once
	initErr    error
)

// GetTranslator returns the process-wide shader translator, creating it on
// first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			initErr = fmt.Errorf("shader translator: %w", initErr)
		}
	})
	return translator, initErr
}

// Stage is a shader stage name understood by the translator.
type Stage string

const (
	Vertex   Stage = "vertex"
	Fragment Stage = "fragment"
)

// Translated is a shader rewritten for desktop GL 4.1 together with the
// mapping from source uniform names to the names in the output.
type Translated struct {
	Code     string
	Uniforms map[string]string
}

// MappedName returns the output name of the source uniform name.
func (t *Translated) MappedName(name string) (string, bool) {
	n, ok := t.Uniforms[name]
	return n, ok
}

// ToGLSL410 translates WebGL2 (GLSL ES 3.00) source to GLSL 4.10.
func ToGLSL410(source string, stage Stage) (*Translated, error) {
	tr, err := GetTranslator()
	if err != nil {
		return nil, err
	}
	out, err := tr.TranslateShader(source, string(stage), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	t := &Translated{Code: out.Code, Uniforms: make(map[string]string, len(out.Variables))}
	for name, v := range out.Variables {
		t.Uniforms[name] = v.MappedName
	}
	return t, nil
}
