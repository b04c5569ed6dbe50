package topup

import "github.com/odyssey-erp/topup/internal/ledger"

// Partition splits a company's active users into the emailable and
// not-emailable groups. A user is emailable only when both the company and
// the user have email enabled; with the company switch off, every active
// user lands in notEmailable. Both groups preserve the input order, and
// together they cover the input exactly.
func Partition(c ledger.Company, active []ledger.User) (emailable, notEmailable []ledger.User) {
	emailable = make([]ledger.User, 0, len(active))
	notEmailable = make([]ledger.User, 0, len(active))
	for _, u := range active {
		if c.EmailStatus && u.EmailStatus {
			emailable = append(emailable, u)
		} else {
			notEmailable = append(notEmailable, u)
		}
	}
	return emailable, notEmailable
}
