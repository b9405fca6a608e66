package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// healthKeywords gate which questions reach the assistant.
var healthKeywords = []string{
	// Medical
	"disease", "illness", "symptom", "treatment", "medicine", "doctor", "hospital", "health",
	"medical", "patient", "diagnosis", "condition", "pain", "fever", "cold", "flu", "allergy",
	"infection", "injury", "wound", "blood", "heart", "lung", "brain", "kidney", "liver",

	// Diet & nutrition
	"diet", "nutrition", "food", "eat", "eating", "calorie", "protein", "carb", "fat",
	"vitamin", "mineral", "supplement", "recipe", "meal", "breakfast", "lunch", "dinner",
	"weight", "calories", "sugar", "salt", "healthy", "fiber", "cholesterol",

	// Lifestyle & fitness
	"exercise", "workout", "fitness", "gym", "run", "walk", "yoga", "sleep", "rest",
	"stress", "anxiety", "mental health", "depression", "wellness", "lifestyle", "habit",
	"water intake", "hydration",

	// General
	"pregnancy", "vaccination", "vaccine", "immunization", "skin", "hair",
	"digestion", "metabolism", "energy", "fatigue", "immune", "aging", "sexual health",
	"menopause", "period", "puberty",
}

// IsHealthRelated reports whether message mentions any health keyword. Matching
// is case-insensitive and a keyword must begin a word, so "diets" matches
// "diet" while "weather" does not match "eat".
func IsHealthRelated(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range healthKeywords {
		if containsWordPrefix(lower, keyword) {
			return true
		}
	}
	return false
}

func containsWordPrefix(text, keyword string) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], keyword)
		if i < 0 {
			return false
		}
		i += offset
		if i == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		offset = i + 1
	}
	return false
}
