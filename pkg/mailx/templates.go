package mailx

import (
	"bytes"
	"html/template"
	texttemplate "text/template"
)

// InterviewMail is the data available to interview templates
type InterviewMail struct {
	CandidateName string
	JobTitle      string
	Round         string
	When          string
	Duration      int
	Format        string
	Location      string
	Interviewer   string
	Notes         string
}

type mailTemplate struct {
	subject *texttemplate.Template
	body    *template.Template
}

func mustTemplate(name, subject, body string) mailTemplate {
	return mailTemplate{
		subject: texttemplate.Must(texttemplate.New(name + "_subject").Parse(subject)),
		body:    template.Must(template.New(name + "_body").Parse(body)),
	}
}

func (t mailTemplate) render(data any) (subject, body string, err error) {
	var sb, bb bytes.Buffer
	if err := t.subject.Execute(&sb, data); err != nil {
		return "", "", err
	}
	if err := t.body.Execute(&bb, data); err != nil {
		return "", "", err
	}
	return sb.String(), bb.String(), nil
}

const detailsBlock = `
<ul>
  <li><strong>Vị trí:</strong> {{.JobTitle}}</li>
  {{if .Round}}<li><strong>Vòng:</strong> {{.Round}}</li>{{end}}
  <li><strong>Thời gian:</strong> {{.When}} ({{.Duration}} phút)</li>
  <li><strong>Hình thức:</strong> {{.Format}}</li>
  {{if .Location}}<li><strong>Địa điểm:</strong> {{.Location}}</li>{{end}}
  <li><strong>Người phỏng vấn:</strong> {{.Interviewer}}</li>
</ul>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}`

var (
	invitationTemplate = mustTemplate("invitation",
		`Thư mời phỏng vấn - {{.JobTitle}}`,
		`<p>Xin chào {{.CandidateName}},</p>
<p>Chúng tôi trân trọng mời bạn tham gia buổi phỏng vấn với thông tin như sau:</p>`+detailsBlock+`
<p>Trân trọng.</p>`)

	reminderTemplate = mustTemplate("reminder",
		`Nhắc lịch phỏng vấn - {{.JobTitle}}`,
		`<p>Xin chào {{.CandidateName}},</p>
<p>Đây là lời nhắc về buổi phỏng vấn sắp tới của bạn:</p>`+detailsBlock+`
<p>Hẹn gặp bạn.</p>`)
)
