package store

type Setting struct {
	Key   string
	Value string
}

// Setting keys.
const (
	SettingMaxVisible  = "max_visible"
	SettingDefaultView = "default_view"
)
