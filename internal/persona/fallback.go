package persona

import "fmt"

// fallbackCatalog is the fixed set of deterministic default personas used
// when generation cannot supply enough valid candidates. Order matters: the
// validator pads from the front.
var fallbackCatalog = PersonaSet{
	{
		Name:               "John Smith",
		Background:         "Senior software developer with 12 years of experience across backend systems and delivery",
		Goals:              "Deliver a high-quality, maintainable solution for the task",
		Beliefs:            "Code quality and maintainability are paramount",
		Knowledge:          "Distributed systems, API design, and testing practice",
		CommunicationStyle: "Professional and detailed",
	},
	{
		Name:               "Sarah Johnson",
		Background:         "Product-minded engineering lead with a decade of cross-functional team experience",
		Goals:              "Keep the work aligned with user needs and stated goals",
		Beliefs:            "Collaborative problem-solving beats individual heroics",
		Knowledge:          "Product discovery, requirements analysis, and agile delivery",
		CommunicationStyle: "Clear, empathetic, and concise",
	},
	{
		Name:               "Miguel Alvarez",
		Background:         "Infrastructure specialist focused on reliability and operational simplicity",
		Goals:              "Make the outcome robust, observable, and easy to operate",
		Beliefs:            "Simple systems fail less and recover faster",
		Knowledge:          "Cloud infrastructure, automation, and incident response",
		CommunicationStyle: "Direct and pragmatic",
	},
	{
		Name:               "Priya Patel",
		Background:         "Researcher and analyst experienced in synthesizing domain knowledge for teams",
		Goals:              "Ground decisions in evidence relevant to the task",
		Beliefs:            "Good decisions come from shared, verifiable context",
		Knowledge:          "Literature review, data analysis, and knowledge management",
		CommunicationStyle: "Thoughtful and inquisitive",
	},
}

// cycleSuffixes disambiguates catalog names when the shortfall exceeds the
// catalog size. MaxCount (10) over a 4-entry catalog needs at most cycle III.
var cycleSuffixes = []string{"", " II", " III", " IV", " V"}

// DefaultSet returns count deterministic fallback personas. Counts beyond the
// catalog cycle through it with disambiguating name suffixes. count is
// clamped to the supported range; this function never fails.
func DefaultSet(count int) PersonaSet {
	count = clampCount(count)
	out := make(PersonaSet, 0, count)
	for i := 0; i < count; i++ {
		p := fallbackCatalog[i%len(fallbackCatalog)]
		cycle := i / len(fallbackCatalog)
		if cycle > 0 {
			p.Name = p.Name + suffixFor(cycle)
		}
		out = append(out, p)
	}
	return out
}

func suffixFor(cycle int) string {
	if cycle < len(cycleSuffixes) {
		return cycleSuffixes[cycle]
	}
	return fmt.Sprintf(" %d", cycle+1)
}
