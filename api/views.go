package api

import (
	"net/http"

	"github.com/clear-ness/view-counter/audit"
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
)

func (api *API) InitViews() {
	api.BaseRoutes.Views.Handle("", api.ApiHandler(reportView)).Methods("POST")

	// trackers rendered for WordPress post to admin-ajax with an action field
	api.BaseRoutes.Root.Handle(model.ADMIN_AJAX_PATH, api.ApiHandler(reportView)).Methods("POST")
}

// reportView never tells the tracker why a report was rejected: every
// rejection gets the same generic body.
func reportView(c *Context, w http.ResponseWriter, r *http.Request) {
	report := model.ViewReportFromRequest(r)

	auditRec := c.MakeAuditRecord("reportView", audit.Fail)
	defer c.LogAuditRec(auditRec)
	auditRec.AddMeta("post_id", report.PostId)

	var err *model.AppError
	if report.Action != "" && report.Action != model.VIEWS_REPORT_ACTION {
		err = model.NewAppError("reportView", "api.views.invalid_input.app_error", nil, "action="+report.Action, http.StatusBadRequest)
	} else {
		err = c.App.HandleViewReport(report.PostId, report.Nonce)
	}

	if err != nil {
		auditRec.AddMeta("error_id", err.Id)
		if err.StatusCode >= http.StatusInternalServerError {
			c.Log.Error("View report failed", mlog.String("post_id", report.PostId), mlog.Err(err))
		}

		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(model.NewViewReportFailure().ToJson()))
		return
	}

	auditRec.Success()

	ReturnStatusOK(w)
}
