package filter

import "github.com/kaba-chine/kaba-admin/internal/model"

// AddressCriteria selects client addresses. Default is "yes", "no" or "all".
type AddressCriteria struct {
	Search  string
	Region  string
	City    string
	Default string
}

// Addresses returns the addresses matching criteria, in input order. Search also
// matches the owning client's name, looked up in clientNames by user id.
func Addresses(addresses []model.Address, criteria AddressCriteria, clientNames map[string]string) []model.Address {
	return keep(addresses, func(a model.Address) bool {
		if !containsFold(criteria.Search, clientNames[a.KabaUserID], a.Street, a.City, a.Region) {
			return false
		}
		if isSet(criteria.Region) && a.Region != criteria.Region {
			return false
		}
		if isSet(criteria.City) && a.City != criteria.City {
			return false
		}
		if isSet(criteria.Default) && a.IsDefault != (criteria.Default == "yes") {
			return false
		}
		return true
	})
}
