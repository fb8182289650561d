package core

// CRARow is one collaborator's line in the monthly activity summary
// (compte rendu d'activité): the six bucket totals in days.
type CRARow struct {
	CollaboratorID        int64
	CollaboratorFirstName string
	CollaboratorLastName  string
	DeclaredDays          Days
	BilledDays            Days
	RTTRedemptionDays     Days
	AbsenceDays           Days
	ExtraHoursInDays      Days
	OnCallInDays          Days
}

// BuildMonthlyCRA aggregates raw activities into per-collaborator
// summary rows for the given month. Activities without a collaborator
// or outside the month are discarded. Collaborators with no qualifying
// activity are absent from the result, not zero-filled. Row order is
// not guaranteed.
func BuildMonthlyCRA(activities []Activity, month Month) []CRARow {
	byCollaborator := make(map[int64][]Activity)
	collaborators := make(map[int64]*Collaborator)
	for _, a := range activities {
		if a.Collaborator == nil {
			continue
		}
		if !month.Contains(a.Date) {
			continue
		}
		id := a.Collaborator.ID
		byCollaborator[id] = append(byCollaborator[id], a)
		collaborators[id] = a.Collaborator
	}

	rows := make([]CRARow, 0, len(byCollaborator))
	for id, group := range byCollaborator {
		c := collaborators[id]
		rows = append(rows, CRARow{
			CollaboratorID:        c.ID,
			CollaboratorFirstName: c.FirstName,
			CollaboratorLastName:  c.LastName,
			DeclaredDays:          SumDaysByBucket(group, BucketDeclared),
			BilledDays:            SumDaysByBucket(group, BucketBilled),
			RTTRedemptionDays:     SumDaysByBucket(group, BucketRTTRedemption),
			AbsenceDays:           SumDaysByBucket(group, BucketAbsence),
			ExtraHoursInDays:      SumDaysByBucket(group, BucketExtraHours),
			OnCallInDays:          SumDaysByBucket(group, BucketOnCall),
		})
	}
	return rows
}

// GroupByMission partitions a collaborator's activities by their linked
// mission. Activities without a mission link are excluded; historical
// data may lack links.
func GroupByMission(activities []Activity, collaboratorID int64, month Month) map[int64]MissionActivities {
	groups := make(map[int64]MissionActivities)
	for _, a := range activities {
		if a.Collaborator == nil || a.Collaborator.ID != collaboratorID {
			continue
		}
		if !month.Contains(a.Date) {
			continue
		}
		if a.Mission == nil {
			continue
		}
		g := groups[a.Mission.ID]
		g.Mission = a.Mission
		g.Activities = append(g.Activities, a)
		groups[a.Mission.ID] = g
	}
	return groups
}

// MissionActivities pairs a mission with its month activities.
type MissionActivities struct {
	Mission    *Mission
	Activities []Activity
}
