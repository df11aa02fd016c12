package section

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

func problems(t *testing.T, ss []Section) map[string]apperr.Code {
	t.Helper()
	err := Validate(ss)
	if err == nil {
		return nil
	}
	var p apperr.Problems
	require.True(t, errors.As(err, &p), "want Problems, got %T", err)
	out := make(map[string]apperr.Code, len(p))
	for _, e := range p {
		out[e.Field] = e.Code
	}
	return out
}

func TestValidate_SampleIsValid(t *testing.T) {
	assert.NoError(t, Validate(sample()))
	assert.NoError(t, Validate(nil))
}

func TestValidate_Rules(t *testing.T) {
	cases := []struct {
		name string
		s    Section
		want map[string]apperr.Code
	}{
		{"header needs title and content", Section{Type: TypeHeader, Content: Text(" ")},
			map[string]apperr.Code{"sections[0].title": apperr.CodeTitleRequired, "sections[0].content": apperr.CodeContentRequired}},
		{"moreInfo needs title", Section{Type: TypeMoreInfo, Content: Text("a")},
			map[string]apperr.Code{"sections[0].title": apperr.CodeTitleRequired}},
		{"banner needs image", Section{Type: TypeBanner, Content: Banner{}},
			map[string]apperr.Code{"sections[0].content": apperr.CodeContentRequired}},
		{"banner too large", Section{Type: TypeBanner, Content: Banner{Image: strings.Repeat("a", MaxImageBytes+1)}},
			map[string]apperr.Code{"sections[0].content": apperr.CodeImageTooLarge}},
		{"banner button checked", Section{Type: TypeBanner, Content: Banner{Image: "i", Buttons: []Button{{Action: "x"}}}},
			map[string]apperr.Code{"sections[0].content.buttons[0].name": apperr.CodeButtonName}},
		{"video required", Section{Type: TypeVideo, Content: Video("")},
			map[string]apperr.Code{"sections[0].content": apperr.CodeContentRequired}},
		{"video bad url", Section{Type: TypeVideo, Content: Video("javascript:alert(1)")},
			map[string]apperr.Code{"sections[0].content": apperr.CodeVideoURLInvalid}},
		{"video protocol relative", Section{Type: TypeVideo, Content: Video("//evil.example/v")},
			map[string]apperr.Code{"sections[0].content": apperr.CodeVideoURLInvalid}},
		{"video root relative ok", Section{Type: TypeVideo, Content: Video("/media/clip.mp4")}, nil},
		{"buttons required", Section{Type: TypeButtons, Content: Buttons{}},
			map[string]apperr.Code{"sections[0].content": apperr.CodeButtonsRequired}},
		{"buttons limit", Section{Type: TypeButtons, Content: Buttons{{Name: "a", Action: "a"}, {Name: "b", Action: "b"}, {Name: "c", Action: "c"}}},
			map[string]apperr.Code{"sections[0].content": apperr.CodeButtonLimit}},
		{"button fields", Section{Type: TypeButtons, Content: Buttons{{Type: "ghost"}}},
			map[string]apperr.Code{
				"sections[0].content[0].name":   apperr.CodeButtonName,
				"sections[0].content[0].action": apperr.CodeButtonAction,
				"sections[0].content[0].type":   apperr.CodeButtonType,
			}},
		{"external action needs url", Section{Type: TypeButtons, Content: Buttons{{Name: "a", Action: "blank:x.com"}}},
			map[string]apperr.Code{"sections[0].content[0].action": apperr.CodeButtonURL}},
		{"unknown type", Section{Type: "carousel"},
			map[string]apperr.Code{"sections[0].type": apperr.CodeUnknownType}},
		{"mismatched content", Section{Type: TypeHeader, Title: "t", Content: Video("x")},
			map[string]apperr.Code{"sections[0].content": apperr.CodeContentMismatch}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, problems(t, []Section{tc.s}))
		})
	}
}

func TestValidate_ReportsIndex(t *testing.T) {
	ss := sample()
	ss = append(ss, Section{Type: TypeHeader, Title: "", Content: Text("x")})
	got := problems(t, ss)
	assert.Equal(t, map[string]apperr.Code{"sections[6].title": apperr.CodeTitleRequired}, got)

	err := Validate(ss)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeTitleRequired})
}
