package feedback

// Next returns the index step positions after current, wrapping once past
// last. It reports false when current or last is unknown.
//
// Only a single wrap is applied, so steps larger than last stay out of range.
func Next(current, step, last int) (int, bool) {
	if current < 1 || last < 1 {
		return 0, false
	}
	if current+step > last {
		return current + step - last, true
	}
	return current + step, true
}

// Previous returns the index step positions before current, wrapping once
// below 1. It reports false when current or last is unknown.
func Previous(current, step, last int) (int, bool) {
	if current < 1 || last < 1 {
		return 0, false
	}
	if current-step < 1 {
		return last + current - step, true
	}
	return current - step, true
}
