package echoweb

import (
	"embed"
	"html/template"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/project"
)

//go:embed templates/*.html
var templatesFS embed.FS

// unknownStamp is displayed for a missing or empty timestamp.
const unknownStamp = "Unknown"

var (
	pages    = []string{"home", "register", "dashboard", "faqs", "tasks", "loading", "error"}
	partials = []string{"templates/layout.html", "templates/participant_select.html"}

	responsePolicyOnce sync.Once
	responsePolicy     *bluemonday.Policy
)

// sanitize strips everything but basic formatting from user generated markup.
func sanitize(raw string) template.HTML {
	responsePolicyOnce.Do(func() {
		responsePolicy = bluemonday.UGCPolicy()
	})
	return template.HTML(strings.TrimSpace(responsePolicy.Sanitize(raw)))
}

// splitStamp splits a backend timestamp into a date and a time of day.
// Unparsable stamps are shown as-is on the date line.
func splitStamp(stamp string) (date, clock string) {
	stamp = strings.TrimSpace(stamp)
	if stamp == "" {
		return unknownStamp, ""
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, stamp); err == nil {
			return ts.Format("2006-01-02"), ts.Format("15:04:05")
		}
	}
	return stamp, ""
}

// participantOption is one entry of the participant multi-select.
type participantOption struct {
	project.Participant
	Selected bool
}

func participantOptions(users []project.Participant, selectedKeys []string) []participantOption {
	selected := project.SelectParticipants(users, selectedKeys)
	opts := make([]participantOption, 0, len(users))
	for _, usr := range users {
		opt := participantOption{Participant: usr}
		for _, s := range selected {
			if s.UserID == usr.UserID {
				opt.Selected = true
				break
			}
		}
		opts = append(opts, opt)
	}
	return opts
}

// Renderer renders the embedded HTML templates. Every page is parsed together
// with the layout and the partials.
type Renderer struct {
	appName string
	pages   map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

func NewRenderer(appName string, opts core.Options) (*Renderer, error) {
	funcs := template.FuncMap{
		"sanitize":           sanitize,
		"stampDate":          func(s string) string { d, _ := splitStamp(s); return d },
		"stampTime":          func(s string) string { _, t := splitStamp(s); return t },
		"categoryOf":         opts.FAQCategories.Label,
		"participantOptions": participantOptions,
	}

	r := &Renderer{appName: appName, pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		// the page comes last so its blocks override the layout defaults
		files := append(append([]string{}, partials...), "templates/"+name+".html")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", name)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %s", name)
	}
	if page, ok := data.(pageData); ok && page.AppName == "" {
		page.AppName = r.appName
		data = page
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// RenderPartial executes a single named partial, e.g. "participant_select".
func (r *Renderer) RenderPartial(w io.Writer, name string, data interface{}) error {
	return r.pages["home"].ExecuteTemplate(w, name, data)
}
