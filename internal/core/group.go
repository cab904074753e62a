package core

import (
	"fmt"
	"strings"
	"time"
)

type GroupType string

const (
	GroupFamily    GroupType = "family"
	GroupRoommates GroupType = "roommates"
	GroupPersonal  GroupType = "personal"
	GroupOther     GroupType = "other"
)

// DefaultProfileColor is assigned when a profile is created without one.
const DefaultProfileColor = "#3B82F6"

// Profile is one member of a group. A profile belongs to exactly one group.
type Profile struct {
	ID        string    `json:"id,omitempty"`
	GroupID   string    `json:"groupId,omitempty"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Group is a household sharing one partitioned ledger, with an ordered list
// of member profiles.
type Group struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Type      GroupType `json:"type"`
	Profiles  []Profile `json:"profiles"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// GroupInput carries raw candidate fields for group creation.
type GroupInput struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Profiles []ProfileInput `json:"profiles"`
}

type ProfileInput struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
}

// ValidateGroup checks a group creation request and returns the normalized
// group: names trimmed, missing profile colors defaulted.
func ValidateGroup(in GroupInput) (Group, error) {
	errs := ValidationErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs["name"] = "group name is required"
	}

	switch GroupType(in.Type) {
	case GroupFamily, GroupRoommates, GroupPersonal, GroupOther:
	default:
		errs["type"] = `type must be one of "family", "roommates", "personal", "other"`
	}

	if len(in.Profiles) == 0 {
		errs["profiles"] = "at least one profile is required"
	}

	profiles := make([]Profile, 0, len(in.Profiles))
	for i, p := range in.Profiles {
		pname := strings.TrimSpace(p.Name)
		if pname == "" {
			errs[fmt.Sprintf("profiles[%d].name", i)] = "profile name is required"
			continue
		}
		color := strings.TrimSpace(p.Color)
		if color == "" {
			color = DefaultProfileColor
		}
		profiles = append(profiles, Profile{Name: pname, Avatar: strings.TrimSpace(p.Avatar), Color: color})
	}

	if len(errs) > 0 {
		return Group{}, errs
	}
	return Group{Name: name, Type: GroupType(in.Type), Profiles: profiles}, nil
}
