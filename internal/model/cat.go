package model

// Cat is a catalogue entry from the `cats` table. The json tags match the
// shape the browser front-end expects.
type Cat struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
	Img         string `json:"img"`
}
