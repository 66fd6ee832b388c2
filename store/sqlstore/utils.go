package sqlstore

import (
	"database/sql"

	"github.com/go-gorp/gorp"

	"github.com/clear-ness/view-counter/mlog"
)

func finalizeTransaction(transaction *gorp.Transaction) {
	if err := transaction.Rollback(); err != nil && err != sql.ErrTxDone {
		mlog.Error("Failed to rollback transaction", mlog.Err(err))
	}
}
