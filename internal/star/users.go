package star

import (
	"starmill/internal/identity"
	"starmill/internal/payload"
)

// Directory is the deduplicated user directory keyed by email, in insertion
// order. At most one entry exists per distinct email; the first occurrence
// wins and later sightings never overwrite recorded attributes.
type Directory struct {
	Users   []*User
	byEmail map[string]*User
}

func newDirectory() *Directory {
	return &Directory{byEmail: make(map[string]*User)}
}

// Lookup returns the user recorded for an email, if any.
func (d *Directory) Lookup(email string) (*User, bool) {
	u, ok := d.byEmail[email]
	return u, ok
}

// Len returns the number of distinct users.
func (d *Directory) Len() int {
	return len(d.Users)
}

func (d *Directory) add(u *User) {
	d.Users = append(d.Users, u)
	d.byEmail[u.Email] = u
}

// assignIDs hands out 1-based dense user ids in insertion order. Called once,
// after every record has been processed.
func (d *Directory) assignIDs() {
	for i, u := range d.Users {
		u.ID = i + 1
	}
}

// addRecordUsers folds one record's payload into the directory. Attendee
// objects are processed first so explicit names and contact attributes win;
// every other gathered email (participant-, host- or organizer-only) is then
// recorded with an inferred name at most. The resolution context accumulates
// claimed names across the whole batch.
func addRecordUsers(d *Directory, p payload.Payload, ctx *identity.ResolutionContext) int {
	speakers := identity.NormalizeSpeakers(p.Speakers())
	added := 0

	for _, att := range p.Attendees() {
		if att.Email == "" {
			continue
		}
		if _, ok := d.byEmail[att.Email]; ok {
			continue
		}
		u := &User{
			Email:       att.Email,
			Location:    optional(att.Location),
			DisplayName: optional(att.DisplayName),
			PhoneNumber: optional(att.PhoneNumber),
		}
		if att.Name != "" {
			u.Name = &att.Name
		} else if name, ok := identity.InferName(att.Email, speakers, ctx); ok {
			u.Name = &name
		}
		d.add(u)
		added++
	}

	for _, email := range collectEmails(p) {
		if _, ok := d.byEmail[email]; ok {
			continue
		}
		u := &User{Email: email}
		if name, ok := identity.InferName(email, speakers, ctx); ok {
			u.Name = &name
		}
		d.add(u)
		added++
	}

	return added
}

// collectEmails gathers every relevant email of a payload in deterministic
// first-seen order: host, organizer, participants, attendee emails. Empties
// are filtered and duplicates collapse to the first occurrence.
func collectEmails(p payload.Payload) []string {
	var out []string
	seen := make(map[string]struct{})

	push := func(email string) {
		if email == "" {
			return
		}
		if _, ok := seen[email]; ok {
			return
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}

	push(p.HostEmail())
	push(p.OrganizerEmail())
	for _, email := range p.Participants() {
		push(email)
	}
	for _, att := range p.Attendees() {
		push(att.Email)
	}

	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
