package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

func TestButtons_CapIsTwo(t *testing.T) {
	for _, typ := range []Type{TypeButtons, TypeBanner} {
		t.Run(string(typ), func(t *testing.T) {
			e := NewEditor(nil)
			i := e.Add()
			require.NoError(t, e.Update(i, FieldType, typ))

			for n := 0; n < 2; n++ {
				b, err := e.AddButton(i)
				require.NoError(t, err)
				assert.Equal(t, n, b)
			}
			for n := 0; n < 5; n++ {
				_, err := e.AddButton(i)
				require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeButtonLimit})
			}

			s, _ := e.Section(i)
			assert.Len(t, buttonsOf(s.Content), 2)
		})
	}
}

func TestButtons_NoCapacity(t *testing.T) {
	e := NewEditor([]Section{{Type: TypeVideo, Content: Video("")}})
	_, err := e.AddButton(0)
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeNoButtons})

	_, err = e.AddButton(4)
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeIndexOutOfRange})
}

func TestButtons_Edit(t *testing.T) {
	e := NewEditor([]Section{{Type: TypeButtons, Content: Buttons{}}})
	_, err := e.AddButton(0)
	require.NoError(t, err)
	_, err = e.AddButton(0)
	require.NoError(t, err)

	require.NoError(t, e.SetButtonField(0, 0, ButtonName, "Buy"))
	require.NoError(t, e.SetButtonField(0, 0, ButtonAction, "blank:https://x.com"))
	require.NoError(t, e.SetButtonType(0, 0, ButtonOutlined))
	require.NoError(t, e.SetButtonField(0, 1, ButtonName, "More"))

	require.ErrorIs(t, e.SetButtonType(0, 0, "ghost"), &apperr.Error{Code: apperr.CodeButtonType})
	require.ErrorIs(t, e.SetButtonField(0, 2, ButtonName, "x"), &apperr.Error{Code: apperr.CodeButtonOutOfRange})
	require.ErrorIs(t, e.SetButtonField(0, 0, "icon", "x"), &apperr.Error{Code: apperr.CodeFieldInvalid})

	s, _ := e.Section(0)
	assert.Equal(t, Buttons{
		{Name: "Buy", Action: "blank:https://x.com", Type: ButtonOutlined},
		{Name: "More", Type: ButtonFilled},
	}, s.Content)

	require.NoError(t, e.RemoveButton(0, 0))
	require.ErrorIs(t, e.RemoveButton(0, 1), &apperr.Error{Code: apperr.CodeButtonOutOfRange})
	s, _ = e.Section(0)
	assert.Equal(t, Buttons{{Name: "More", Type: ButtonFilled}}, s.Content)
}

func TestButtons_BannerImageSurvives(t *testing.T) {
	e := NewEditor([]Section{{Type: TypeBanner, Content: Banner{Image: "img"}}})
	_, err := e.AddButton(0)
	require.NoError(t, err)
	require.NoError(t, e.SetButtonField(0, 0, ButtonName, "Go"))

	s, _ := e.Section(0)
	assert.Equal(t, Banner{Image: "img", Buttons: []Button{{Name: "Go", Type: ButtonFilled}}}, s.Content)
}
