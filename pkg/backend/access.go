package backend

import (
	"context"

	"github.com/taskmill/taskmill/pkg/access"
	"github.com/taskmill/taskmill/pkg/db"
	"github.com/taskmill/taskmill/pkg/proto"
)

// UserAbilities returns the abilities granted to a user by their role. A user
// without a role has none.
func (d *Backend) UserAbilities(ctx context.Context, userID int64) (access.Set, error) {
	var set access.Set
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		u, err := d.store.GetUserByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if u.RoleID == nil {
			return nil
		}

		r, err := d.store.GetRoleByID(ctx, tx, *u.RoleID)
		if err != nil {
			return err
		}
		for _, a := range r.Abilities {
			if ab, err := access.ParseAbility(a); err == nil {
				set = append(set, ab)
			}
		}
		return nil
	}); err != nil {
		return nil, wrapError(err, proto.ErrUserNotFound)
	}
	return set, nil
}

// UserCan reports whether a user holds ability.
func (d *Backend) UserCan(ctx context.Context, userID int64, ability access.Ability) bool {
	set, err := d.UserAbilities(ctx, userID)
	if err != nil {
		d.logger.Debug("error getting user abilities", "user", userID, "err", err)
		return false
	}
	return set.Has(ability)
}
