package domain

// The engine carries three distinct verbal vocabularies and they must stay
// distinct: Interpret is the generic ladder applied to a final posterior,
// StepLabel is the legal-process ladder applied to each sequential update
// row, and CounterLabel is the abbreviated ladder used on point-form
// counter-evidence rows. All three are pure threshold ladders, evaluated
// highest-threshold-first, and total over all reals: values outside 0-100
// fall into the nearest open-ended bucket.

// Interpret maps a probability percentage to one of eight generic verbal
// tiers describing how established guilt is.
func Interpret(pct float64) string {
	switch {
	case pct >= 95:
		return "beyond reasonable doubt"
	case pct >= 80:
		return "clearly preponderant reasons"
	case pct >= 60:
		return "substantially established"
	case pct >= 50:
		return "roughly even / slight preponderance"
	case pct >= 40:
		return "doubtful"
	case pct >= 20:
		return "improbable"
	case pct >= 1:
		return "practically no chance"
	default:
		return "near impossible"
	}
}

// StepLabel maps a per-step posterior percentage to one of eight
// legal-process tiers. The thresholds differ from Interpret's: this ladder
// tracks procedural standards (indictment, probable cause) rather than
// generic likelihood language.
func StepLabel(pct float64) string {
	switch {
	case pct >= 95:
		return "beyond reasonable doubt"
	case pct >= 80:
		return "strongly indicates guilt"
	case pct >= 60:
		return "sufficient grounds for indictment"
	case pct >= 50:
		return "preponderance of evidence"
	case pct >= 40:
		return "probable cause to suspect"
	case pct >= 30:
		return "doubtful"
	case pct >= 20:
		return "improbable"
	default:
		return "indicates innocence"
	}
}

// CounterLabel maps a posterior percentage to the four-tier abbreviated
// ladder used on point-form counter-evidence rows.
func CounterLabel(pct float64) string {
	switch {
	case pct >= 95:
		return ">95%"
	case pct >= 80:
		return ">80%"
	case pct >= 50:
		return ">50%"
	default:
		return "under 50%"
	}
}
