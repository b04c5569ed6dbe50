package topup

import (
	"fmt"
	"io"
)

// Render writes the pass report. The layout is a fixed contract: a leading
// blank line, then per company its id, name, the emailed users, the
// not-emailed users, and the company total, separated by blank lines.
// Each listed balance pair satisfies new = previous + top_up.
func Render(w io.Writer, s *Summary) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, c := range s.Companies {
		_, _ = fmt.Fprintf(w, "\tCompany Id: %d\n", c.CompanyID)
		_, _ = fmt.Fprintf(w, "\tCompany Name: %s\n", c.CompanyName)
		_, _ = fmt.Fprintf(w, "\tUsers Emailed:\n")
		renderCredits(w, c.Emailed)
		_, _ = fmt.Fprintf(w, "\tUsers Not Emailed:\n")
		renderCredits(w, c.NotEmailed)
		_, _ = fmt.Fprintf(w, "\t\tTotal amount of top ups for %s: %d\n", c.CompanyName, c.Total)
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func renderCredits(w io.Writer, credits []UserCredit) {
	for _, u := range credits {
		_, _ = fmt.Fprintf(w, "\t\t%s, %s, %s\n", u.LastName, u.FirstName, u.Email)
		_, _ = fmt.Fprintf(w, "\t\t  Previous Token Balance, %d\n", u.PreviousTokens)
		_, _ = fmt.Fprintf(w, "\t\t  New Token Balance %d\n", u.NewTokens)
	}
}
