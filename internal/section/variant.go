package section

// Shape selects the payload codec of a variant.
type Shape int

const (
	ShapeImage Shape = iota + 1
	ShapeText
	ShapeButtons
	ShapeURL
)

// InputKind tells the builder UI which control to draw for a field.
type InputKind string

const (
	InputText     InputKind = "text"
	InputTextarea InputKind = "textarea"
	InputImage    InputKind = "image"
	InputURL      InputKind = "url"
	InputButtons  InputKind = "buttons"
)

// FormField describes one builder input of a variant.
type FormField struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Input    InputKind `json:"input"`
	Required bool      `json:"required"`
	MaxItems int       `json:"maxItems,omitempty"`
}

// Variant is everything the editor, validator, codecs and renderer need to
// know about one section type.
type Variant struct {
	Type       Type
	LabelKey   string
	Shape      Shape
	MaxButtons int
	Fields     []FormField
	Empty      func() Content
	// FAQ sections render collapsed in the trailing FAQ group.
	FAQ bool

	validate func(v Variant, s Section, at string) []error
	render   func(v Variant, rc RenderContext, s Section) (Block, error)
}

// Accepts reports whether c has the concrete type this variant stores.
func (v Variant) Accepts(c Content) bool {
	switch c.(type) {
	case Banner:
		return v.Shape == ShapeImage
	case Text:
		return v.Shape == ShapeText
	case Buttons:
		return v.Shape == ShapeButtons
	case Video:
		return v.Shape == ShapeURL
	}
	return false
}

var (
	anchorField = FormField{Name: "sectionId", Label: "field.sectionId", Input: InputText}
	titleField  = FormField{Name: "title", Label: "field.title", Input: InputText, Required: true}
	textField   = FormField{Name: "content", Label: "field.content", Input: InputTextarea, Required: true}
)

// Variants is the section type table, in builder selector order.
var Variants = []Variant{
	{
		Type:       TypeBanner,
		LabelKey:   "section.banner",
		Shape:      ShapeImage,
		MaxButtons: 2,
		Fields: []FormField{
			anchorField,
			{Name: "content", Label: "field.image", Input: InputImage, Required: true},
			{Name: "buttons", Label: "field.buttons", Input: InputButtons, MaxItems: 2},
		},
		Empty:    func() Content { return Banner{} },
		validate: validateBanner,
		render:   renderBanner,
	},
	{
		Type:     TypeHeader,
		LabelKey: "section.header",
		Shape:    ShapeText,
		Fields:   []FormField{anchorField, titleField, textField},
		Empty:    func() Content { return Text("") },
		validate: validateText,
		render:   renderText,
	},
	{
		Type:       TypeButtons,
		LabelKey:   "section.buttons",
		Shape:      ShapeButtons,
		MaxButtons: 2,
		Fields: []FormField{
			anchorField,
			{Name: "content", Label: "field.buttons", Input: InputButtons, Required: true, MaxItems: 2},
		},
		Empty:    func() Content { return Buttons{} },
		validate: validateButtons,
		render:   renderButtons,
	},
	{
		Type:     TypeVideo,
		LabelKey: "section.video",
		Shape:    ShapeURL,
		Fields: []FormField{
			anchorField,
			{Name: "content", Label: "field.video", Input: InputURL, Required: true},
		},
		Empty:    func() Content { return Video("") },
		validate: validateVideo,
		render:   renderVideo,
	},
	{
		Type:     TypeMoreInfo,
		LabelKey: "section.moreInfo",
		Shape:    ShapeText,
		FAQ:      true,
		Fields:   []FormField{anchorField, titleField, textField},
		Empty:    func() Content { return Text("") },
		validate: validateText,
		render:   renderText,
	},
}

var byType = indexVariants(Variants)

func indexVariants(vs []Variant) map[Type]int {
	m := make(map[Type]int, len(vs))
	for i, v := range vs {
		m[v.Type] = i
	}
	return m
}

// Lookup returns the variant for t.
func Lookup(t Type) (Variant, bool) {
	i, ok := byType[t]
	if !ok {
		return Variant{}, false
	}
	return Variants[i], true
}
