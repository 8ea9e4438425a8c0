package password

import (
	"math"
	"strings"
)

const entropyBonusBits = 60.0

// keyboardRuns are adjacency sequences matched as substrings (length >= 4
// windows) during strength estimation.
var keyboardRuns = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
	"1234567890",
}

// Strength is the result of Estimate: a coarse 0-4 score plus the
// observations and suggestions that produced it.
type Strength struct {
	Score       int
	Feedback    []string
	Suggestions []string
}

// Estimate scores password on a 0-4 scale. Any common-password match pins
// the score to 0; otherwise the score is built from length tiers and class
// diversity, penalized for predictable runs, with a bonus once the naive
// entropy estimate clears 60 bits.
func Estimate(password string) Strength {
	if matchesCommonPassword(password) {
		return Strength{
			Score:       0,
			Feedback:    []string{"password matches a commonly used password"},
			Suggestions: []string{"choose a password that is not based on a common word or pattern"},
		}
	}

	var (
		score       int
		feedback    []string
		suggestions []string
	)

	if len(password) >= 12 {
		score++
	} else {
		feedback = append(feedback, "password is shorter than 12 characters")
		suggestions = append(suggestions, "use at least 12 characters")
	}
	if len(password) >= 16 {
		score++
	} else {
		suggestions = append(suggestions, "passwords of 16+ characters are much harder to guess")
	}

	classes := classify(password)
	if classes.count() >= 3 {
		score++
	} else {
		feedback = append(feedback, "password uses too few character classes")
		suggestions = append(suggestions, "mix uppercase, lowercase, digits, and symbols")
	}

	if hasRepeatingRun(password) {
		score--
		feedback = append(feedback, "password contains repeated characters")
	}
	if hasSequentialRun(password) {
		score--
		feedback = append(feedback, "password contains a sequential run")
	}
	if hasKeyboardRun(password) {
		score--
		feedback = append(feedback, "password contains a keyboard pattern")
	}

	if entropyBits(password, classes) >= entropyBonusBits {
		score++
	}

	if score < 0 {
		score = 0
	}
	if score > 4 {
		score = 4
	}
	return Strength{Score: score, Feedback: feedback, Suggestions: suggestions}
}

// entropyBits is the naive log2(pool^length) estimate where pool is the sum
// of the character-class sizes present in the password.
func entropyBits(password string, classes charClasses) float64 {
	pool := 0
	if classes.upper {
		pool += 26
	}
	if classes.lower {
		pool += 26
	}
	if classes.digit {
		pool += 10
	}
	if classes.special {
		pool += len(specialSymbols)
	}
	if pool == 0 {
		return 0
	}
	return float64(len(password)) * math.Log2(float64(pool))
}

func hasRepeatingRun(password string) bool {
	run := 1
	for i := 1; i < len(password); i++ {
		if password[i] == password[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// hasSequentialRun detects three or more consecutive ascending or
// descending code points ("abc", "321").
func hasSequentialRun(password string) bool {
	lower := strings.ToLower(password)
	asc, desc := 1, 1
	for i := 1; i < len(lower); i++ {
		if lower[i] == lower[i-1]+1 {
			asc++
		} else {
			asc = 1
		}
		if lower[i] == lower[i-1]-1 {
			desc++
		} else {
			desc = 1
		}
		if asc >= 3 || desc >= 3 {
			return true
		}
	}
	return false
}

func hasKeyboardRun(password string) bool {
	lower := strings.ToLower(password)
	for _, run := range keyboardRuns {
		for i := 0; i+4 <= len(run); i++ {
			if strings.Contains(lower, run[i:i+4]) {
				return true
			}
		}
	}
	return false
}
