// Package authz holds the allow/deny predicates gating every mutation.
// They are pure functions over already-loaded entities: handlers load, authz
// decides, the repo mutates. The caller is always passed in explicitly.
package authz

import (
	"strings"

	"shelfshare/models"
)

// CanMutateInventory allows only the inventory owner to edit it.
func CanMutateInventory(caller *models.User, inv *models.Inventory) bool {
	return caller != nil && caller.ID == inv.OwnerID
}

// CanMutateItem allows only the owner of the containing inventory to
// edit or delete the item.
func CanMutateItem(caller *models.User, inv *models.Inventory) bool {
	return CanMutateInventory(caller, inv)
}

// CanDecideLoan allows approve/reject only for the inventory owner as
// recorded on the loan at request time.
func CanDecideLoan(caller *models.User, loan *models.Loan) bool {
	return caller != nil && caller.ID == loan.OwnerID
}

// CanCloseLoan allows cancel/clear/return for either party of the loan.
func CanCloseLoan(caller *models.User, loan *models.Loan) bool {
	return caller != nil && (caller.ID == loan.BorrowerID || caller.ID == loan.OwnerID)
}

// CanViewInventory gates the detail view. Public inventories are open to
// everyone, including anonymous callers. A private inventory is visible to
// its owner, to callers whose email domain matches the allowlist, and to
// anyone presenting the access-link token.
func CanViewInventory(caller *models.User, inv *models.Inventory, accessToken string) bool {
	if !inv.IsPrivate {
		return true
	}
	if caller != nil && caller.ID == inv.OwnerID {
		return true
	}
	if caller != nil && inv.AllowedEmailDomain != "" {
		if strings.EqualFold(emailDomain(caller.Email), inv.AllowedEmailDomain) {
			return true
		}
	}
	return inv.AccessLinkToken != "" && accessToken == inv.AccessLinkToken
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}
