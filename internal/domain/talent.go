package domain

// TalentRecord is the per-talent document written to _data.json.
// Optional strings are pointers so an unresolved field serializes as null.
type TalentRecord struct {
	ID       string       `json:"id"`
	OshiMark *string      `json:"oshiMark"`
	Name     *string      `json:"name"`
	Quote    *string      `json:"quote"`
	NameEn   *string      `json:"name_en"`
	QuoteEn  *string      `json:"quote_en"`
	Socials  []SocialLink `json:"socials"`
	Outfits  []string     `json:"outfits"`
	Icon     *IconStyle   `json:"icon"`
}

// SocialLink represents one social account row of the infobox (e.g. YouTube, Twitter).
type SocialLink struct {
	Service string `json:"service"`
	URL     string `json:"url"`
	Label   string `json:"label"`
}

// IconStyle is a placeholder for icon styling; nothing on the wiki populates it yet.
type IconStyle struct {
	BorderColor     string `json:"borderColor"`
	BackgroundColor string `json:"backgroundColor"`
}

// NewTalentRecord creates an empty record for id with non-nil list fields.
func NewTalentRecord(id string) *TalentRecord {
	return &TalentRecord{
		ID:      id,
		Socials: []SocialLink{},
		Outfits: []string{},
	}
}

// DefaultIcon returns the fixed icon placeholder attached when an infobox was found.
func DefaultIcon() *IconStyle {
	return &IconStyle{
		BorderColor:     "",
		BackgroundColor: "",
	}
}

// AddSocial appends link only when every field resolved.
func (r *TalentRecord) AddSocial(service, url, label *string) bool {
	if service == nil || url == nil || label == nil {
		return false
	}
	r.Socials = append(r.Socials, SocialLink{
		Service: *service,
		URL:     *url,
		Label:   *label,
	})
	return true
}
