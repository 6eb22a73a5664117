package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/member"
)

type memberRepository struct {
	db   *memberTable
	full *DB // for cascading deletes
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db.member, full: db}
}

func (repo *memberRepository) query() []member.Member {
	members := make([]member.Member, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

func (repo *memberRepository) CheckNationalIDUniqueness(ctx context.Context, nationalID string, excludedMembers ...member.Member) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mbr := range repo.query() {
		if mbr.NationalID == nationalID && !isExcluded(mbr, excludedMembers) {
			return member.ErrNationalIDExists
		}
	}
	return nil
}

func isExcluded(mbr member.Member, excluded []member.Member) bool {
	for _, ex := range excluded {
		if ex.ID == mbr.ID {
			return true
		}
	}
	return false
}

func (repo *memberRepository) CreateMember(ctx context.Context, mbr member.Member) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, m := range repo.db.table {
		if m.NationalID == mbr.NationalID {
			return member.Member{}, member.ErrNationalIDExists
		}
	}
	mbr.ID = uuid.New().String()
	repo.db.table[mbr.ID] = &mbr
	return mbr, nil
}

func (repo *memberRepository) QueryMembers(ctx context.Context, filter member.QueryFilter) ([]member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := repo.query()

	// members with search keyword matching any Name, NationalID or Phone ?
	if filter.Search != "" {
		var filtered []member.Member
		for _, m := range members {
			if strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Search)) ||
				strings.Contains(m.NationalID, filter.Search) ||
				strings.Contains(m.Phone, filter.Search) {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}
	if filter.IsActive != nil {
		var filtered []member.Member
		for _, m := range members {
			if m.IsActive == *filter.IsActive {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}
	return members, nil
}

func (repo *memberRepository) GetMemberByID(ctx context.Context, id string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mbr, ok := repo.db.table[id]; ok {
		return *mbr, nil
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) GetMemberByNationalID(ctx context.Context, nationalID string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mbr := range repo.query() {
		if mbr.NationalID == nationalID {
			return mbr, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) UpdateMember(ctx context.Context, mbr member.Member, isActive *bool) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[mbr.ID]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	mbr.IsActive = orig.IsActive
	if isActive != nil {
		mbr.IsActive = *isActive
	}
	mbr.CreatedAt = orig.CreatedAt
	repo.db.table[mbr.ID] = &mbr
	return mbr, nil
}

// ApplyAbono checks the guards and increments under the write lock, the
// in-memory equivalent of the conditional UPDATE.
func (repo *memberRepository) ApplyAbono(ctx context.Context, memberID string, amount core.Money) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mbr, ok := repo.db.table[memberID]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	if !mbr.HasPlan() {
		return member.Member{}, member.ErrNoActivePlan
	}
	if mbr.AmountPaid+amount > mbr.PlanPrice {
		return member.Member{}, member.ErrExceedsBalance
	}
	mbr.AmountPaid += amount
	mbr.UpdatedAt = time.Now().UTC()
	return *mbr, nil
}

func (repo *memberRepository) DeleteMember(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return member.ErrNotFound
	}
	delete(repo.db.table, id)

	// cascade attendance and notification rows
	repo.full.attendance.Lock()
	for rid, rec := range repo.full.attendance.table {
		if rec.MemberID == id {
			delete(repo.full.attendance.table, rid)
		}
	}
	repo.full.attendance.Unlock()

	repo.full.log.Lock()
	for lid, lg := range repo.full.log.table {
		if lg.MemberID == id {
			delete(repo.full.log.table, lid)
		}
	}
	repo.full.log.Unlock()
	return nil
}
