package view

import "golang.org/x/text/language"

// Locale holds every user-facing string plus the collation language
type Locale struct {
	Tag language.Tag

	Title            string
	NeverCalled      string
	LastCalledPrefix string
	Called           string
	NotCalled        string
	Primary          string
	Alternate        string
	Empty            string

	Total string

	NoPhone       string
	ConfirmDelete string
	ConfirmReset  string
	AddRequired   string
	ImportDone    string
	ImportFailed  string
	ExportDone    string
	LightMode     string
	DarkMode      string
}

// English is the default locale
var English = Locale{
	Tag:              language.English,
	Title:            "Family Contacts",
	NeverCalled:      "Never called",
	LastCalledPrefix: "Last called:",
	Called:           "Called",
	NotCalled:        "Not Called",
	Primary:          "Main:",
	Alternate:        "Alt:",
	Empty:            "No contacts match.",
	Total:            "Total",
	NoPhone:          "No phone number is set for this contact.",
	ConfirmDelete:    "Are you sure? This contact will be deleted.",
	ConfirmReset:     `Every contact will be set to "Not Called". Continue?`,
	AddRequired:      "Name, relation and phone number are required.",
	ImportDone:       "Import complete!",
	ImportFailed:     "Import failed: wrong file or data.",
	ExportDone:       "Backup written to",
	LightMode:        "Light mode",
	DarkMode:         "Dark mode",
}

// Bengali is the family page as first written
var Bengali = Locale{
	Tag:              language.Bengali,
	Title:            "পরিবারের কন্ট্যাক্ট",
	NeverCalled:      "কখনো কল করা হয়নি",
	LastCalledPrefix: "শেষ কল:",
	Called:           "Called",
	NotCalled:        "Not Called",
	Primary:          "মেইন:",
	Alternate:        "বিকল্প:",
	Empty:            "কোনো কন্ট্যাক্ট পাওয়া যায়নি।",
	Total:            "মোট",
	NoPhone:          "এই কন্ট্যাক্টের জন্য ফোন নম্বর সেট করা হয়নি।",
	ConfirmDelete:    "আপনি কি নিশ্চিত? এই কন্ট্যাক্ট ডিলিট হবে।",
	ConfirmReset:     `সব কন্ট্যাক্টের স্ট্যাটাস "Not Called" করা হবে—নিশ্চিত?`,
	AddRequired:      "নাম, সম্পর্ক ও ফোন নম্বর অবশ্যই লাগবে।",
	ImportDone:       "ইম্পোর্ট সম্পন্ন!",
	ImportFailed:     "ইম্পোর্ট ব্যর্থ: ভুল ফাইল/ডেটা।",
	ExportDone:       "ব্যাকআপ লেখা হয়েছে:",
	LightMode:        "লাইট মোড",
	DarkMode:         "ডার্ক মোড",
}

// LocaleFor picks a locale by code; anything unknown gets English
func LocaleFor(code string) Locale {
	switch code {
	case "bn":
		return Bengali
	default:
		return English
	}
}
