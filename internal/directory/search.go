package directory

import "strings"

// Search returns every object with a field containing query, case-insensitively.
// Results list users, then groups, then computers, each in input order. A blank
// query matches nothing.
func Search(objects *Objects, query string) []SearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))
	results := []SearchResult{}
	if needle == "" || objects == nil {
		return results
	}

	for _, u := range objects.Users {
		if matchesAny(needle, u.SAMAccountName, u.DisplayName, u.UserPrincipalName,
			u.EmailAddress, u.GivenName, u.Surname, u.Department) {
			results = append(results, UserResult(u))
		}
	}

	for _, g := range objects.Groups {
		if matchesAny(needle, g.Name, g.SAMAccountName, g.Description) {
			results = append(results, GroupResult(g))
		}
	}

	for _, c := range objects.Computers {
		if matchesAny(needle, c.Name, c.SAMAccountName, c.DNSHostName, c.Description, c.OperatingSystem) {
			results = append(results, ComputerResult(c))
		}
	}

	return results
}

func matchesAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// UserResult projects a user into a search result.
func UserResult(u *User) SearchResult {
	return SearchResult{
		ID:                u.ID,
		Kind:              KindUser,
		DisplayName:       u.DisplayName,
		Secondary:         firstNonEmpty(u.EmailAddress, u.UserPrincipalName, u.SAMAccountName),
		DistinguishedName: u.DistinguishedName,
	}
}

// GroupResult projects a group into a search result.
func GroupResult(g *Group) SearchResult {
	return SearchResult{
		ID:                g.ID,
		Kind:              KindGroup,
		DisplayName:       g.Name,
		Secondary:         firstNonEmpty(g.Description, g.SAMAccountName),
		DistinguishedName: g.DistinguishedName,
	}
}

// ComputerResult projects a computer into a search result.
func ComputerResult(c *Computer) SearchResult {
	return SearchResult{
		ID:                c.ID,
		Kind:              KindComputer,
		DisplayName:       c.Name,
		Secondary:         firstNonEmpty(c.DNSHostName, c.OperatingSystem, c.SAMAccountName),
		DistinguishedName: c.DistinguishedName,
	}
}
