// Package schema defines the canonical form value object for the authoring
// wizard and the field registry every other representation normalizes
// through. The registry is a static table: field names, types, defaults and
// accepted aliases are fixed at construction and validated up front, so a
// misspelled alias is a configuration error instead of a silent mismatch.
package schema

// FieldType is the simplified enum of wizard field kinds.
type FieldType string

const (
	FieldTypeString         FieldType = "string"
	FieldTypeArray          FieldType = "array"
	FieldTypeBoolean        FieldType = "boolean"
	FieldTypeNullableString FieldType = "nullable_string"
)

// Canonical field names. These are the only keys FormValues exposes; legacy
// spellings resolve through the registry alias table.
const (
	FieldNickname          = "nickname"
	FieldEmail             = "email"
	FieldBio               = "bio"
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldCategory          = "category"
	FieldContent           = "content"
	FieldTags              = "tags"
	FieldMedia             = "media"
	FieldSliderImages      = "sliderImages"
	FieldMainImage         = "mainImage"
	FieldAllowComments     = "allowComments"
	FieldIsEditorCompleted = "isEditorCompleted"
	FieldAgreeToTerms      = "agreeToTerms"
)

// FieldSpec declares a single registry entry: the field's shape, its default,
// how raw input coerces into it, and which legacy spellings resolve to it.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	Email    bool
	// Weight is the field's share of the completion percentage. Required
	// fields carry most of the score; optional, boolean and array fields a
	// fixed small slice.
	Weight  float64
	Aliases []string
	Process func(any) any
}

// FormValues is the canonical, fully-defaulted value object. Every field has
// a deterministic zero default, so the object is always total; there is no
// notion of a missing key.
type FormValues struct {
	Nickname          string   `json:"nickname"`
	Email             string   `json:"email"`
	Bio               string   `json:"bio"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Content           string   `json:"content"`
	Tags              []string `json:"tags"`
	Media             []string `json:"media"`
	SliderImages      []string `json:"sliderImages"`
	MainImage         *string  `json:"mainImage"`
	AllowComments     bool     `json:"allowComments"`
	IsEditorCompleted bool     `json:"isEditorCompleted"`
	AgreeToTerms      bool     `json:"agreeToTerms"`
}

// Get returns the named field's current value. The boolean reports whether
// the name is a canonical field.
func (v FormValues) Get(name string) (any, bool) {
	switch name {
	case FieldNickname:
		return v.Nickname, true
	case FieldEmail:
		return v.Email, true
	case FieldBio:
		return v.Bio, true
	case FieldTitle:
		return v.Title, true
	case FieldDescription:
		return v.Description, true
	case FieldCategory:
		return v.Category, true
	case FieldContent:
		return v.Content, true
	case FieldTags:
		return v.Tags, true
	case FieldMedia:
		return v.Media, true
	case FieldSliderImages:
		return v.SliderImages, true
	case FieldMainImage:
		if v.MainImage == nil {
			return nil, true
		}
		return *v.MainImage, true
	case FieldAllowComments:
		return v.AllowComments, true
	case FieldIsEditorCompleted:
		return v.IsEditorCompleted, true
	case FieldAgreeToTerms:
		return v.AgreeToTerms, true
	default:
		return nil, false
	}
}

// Set assigns the named field from a raw value, coercing it through the same
// rules Normalize applies. Unknown names are ignored and reported as false.
func (v *FormValues) Set(name string, value any) bool {
	switch name {
	case FieldNickname:
		v.Nickname = coerceString(value)
	case FieldEmail:
		v.Email = coerceString(value)
	case FieldBio:
		v.Bio = coerceString(value)
	case FieldTitle:
		v.Title = coerceString(value)
	case FieldDescription:
		v.Description = coerceString(value)
	case FieldCategory:
		v.Category = coerceString(value)
	case FieldContent:
		v.Content = coerceString(value)
	case FieldTags:
		v.Tags = coerceStringSlice(value)
	case FieldMedia:
		v.Media = coerceStringSlice(value)
	case FieldSliderImages:
		v.SliderImages = coerceStringSlice(value)
	case FieldMainImage:
		v.MainImage = coerceNullableString(value)
	case FieldAllowComments:
		v.AllowComments = coerceBool(value)
	case FieldIsEditorCompleted:
		v.IsEditorCompleted = coerceBool(value)
	case FieldAgreeToTerms:
		v.AgreeToTerms = coerceBool(value)
	default:
		return false
	}
	return true
}

// Map expands the value object into a string-keyed map keyed by canonical
// field names. The nullable main image is emitted as nil when unset.
func (v FormValues) Map() map[string]any {
	out := make(map[string]any, 14)
	out[FieldNickname] = v.Nickname
	out[FieldEmail] = v.Email
	out[FieldBio] = v.Bio
	out[FieldTitle] = v.Title
	out[FieldDescription] = v.Description
	out[FieldCategory] = v.Category
	out[FieldContent] = v.Content
	out[FieldTags] = append([]string(nil), v.Tags...)
	out[FieldMedia] = append([]string(nil), v.Media...)
	out[FieldSliderImages] = append([]string(nil), v.SliderImages...)
	if v.MainImage != nil {
		out[FieldMainImage] = *v.MainImage
	} else {
		out[FieldMainImage] = nil
	}
	out[FieldAllowComments] = v.AllowComments
	out[FieldIsEditorCompleted] = v.IsEditorCompleted
	out[FieldAgreeToTerms] = v.AgreeToTerms
	return out
}
