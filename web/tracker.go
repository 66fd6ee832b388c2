package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/utils"
)

// The snippet keeps a ledger of reported post ids in localStorage, waits
// the configured delay and posts a single view report per post.
const trackerSnippetTemplate = `{{define "tracker_snippet"}}<script>
(function (settings) {
	'use strict';

	var storageKey = 'viewedPosts';

	function getViewedPosts() {
		try {
			var data = JSON.parse(window.localStorage.getItem(storageKey));
			return Array.isArray(data) ? data : [];
		} catch (error) {
			return [];
		}
	}

	function addViewedPost(id) {
		try {
			var posts = getViewedPosts();
			posts.push(id);
			window.localStorage.setItem(storageKey, JSON.stringify(posts));
		} catch (error) {
		}
	}

	function report(id) {
		if (getViewedPosts().indexOf(id) !== -1) {
			return;
		}

		var form = new FormData();
		form.append('nonce', settings.nonce);
		form.append('action', 'update_views_counter');
		form.append('post_id', id);

		var done = function () {
			addViewedPost(id);
		};
		fetch(settings.url, {method: 'post', body: form}).then(done, done);
	}

	var delay = settings.delay;
	if (!Number.isInteger(delay) || delay < 0) {
		delay = 0;
	}

	setTimeout(function () {
		report(settings.post_id);
	}, delay * 1000);
})({{.Props.Settings}});
</script>{{end}}`

var trackerTemplates = template.Must(template.New("tracker").Parse(trackerSnippetTemplate))

func (w *Web) InitTracker() {
	w.MainRouter.Handle("/posts/{post_id:[0-9]+}/tracker.html", w.NewStaticHandler(trackerSnippet)).Methods("GET")
}

func trackerSnippet(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequirePostId()
	if c.Err != nil {
		return
	}

	settings, err := c.App.GetTrackerSettings(c.Params.PostId)
	if err != nil {
		c.Err = err
		return
	}

	t := utils.NewHTMLTemplate(trackerTemplates, "tracker_snippet")
	t.Props["Settings"] = settings

	var b bytes.Buffer
	if err := t.RenderToWriter(&b); err != nil {
		c.Err = model.NewAppError("trackerSnippet", "web.tracker.render.app_error", nil, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(b.Bytes())
}
