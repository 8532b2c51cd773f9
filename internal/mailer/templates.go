package mailer

import (
	"fmt"

	"github.com/dorothy-center/apiserver/types"
)

// The three workflow emails. Wording is French because the website's
// audience is; the front end localizes everything else.

// UserConfirmation asks the registrant to prove email ownership by
// clicking the confirmation link.
func UserConfirmation(reg types.Registration, event types.Event, confirmURL string) Message {
	subject := fmt.Sprintf("Confirmez votre inscription — %s", event.Title)
	text := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Vous avez demandé à vous inscrire à « %s » le %s.\n"+
			"Pour confirmer votre adresse email, cliquez sur le lien suivant (valable 24h) :\n\n%s\n\n"+
			"Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.\n\n"+
			"Le centre Dorothy",
		reg.FirstName, event.Title, event.Date, confirmURL,
	)
	html := fmt.Sprintf(
		`<p>Bonjour %s,</p>
<p>Vous avez demandé à vous inscrire à <strong>%s</strong> le %s.</p>
<p>Pour confirmer votre adresse email, cliquez sur le lien suivant (valable 24h) :</p>
<p><a href="%s">Confirmer mon adresse email</a></p>
<p>Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>
<p>Le centre Dorothy</p>`,
		reg.FirstName, event.Title, event.Date, confirmURL,
	)
	return Message{To: reg.Email, Subject: subject, HTML: html, Text: text}
}

// AdminNotification tells the configured admin address that a
// registration has passed email confirmation and awaits review.
func AdminNotification(adminAddress string, reg types.Registration, event types.Event) Message {
	subject := fmt.Sprintf("Inscription à valider — %s", event.Title)
	text := fmt.Sprintf(
		"Une inscription attend votre validation.\n\n"+
			"Événement : %s (%s)\n"+
			"Participant : %s %s\n"+
			"Email : %s\n"+
			"Téléphone : %s\n",
		event.Title, event.Date, reg.FirstName, reg.LastName, reg.Email, reg.Phone,
	)
	html := fmt.Sprintf(
		`<p>Une inscription attend votre validation.</p>
<ul>
<li>Événement : <strong>%s</strong> (%s)</li>
<li>Participant : %s %s</li>
<li>Email : %s</li>
<li>Téléphone : %s</li>
</ul>`,
		event.Title, event.Date, reg.FirstName, reg.LastName, reg.Email, reg.Phone,
	)
	return Message{To: adminAddress, Subject: subject, HTML: html, Text: text}
}

// FinalConfirmation tells the registrant their attendance is approved,
// with the event's practical details.
func FinalConfirmation(reg types.Registration, event types.Event) Message {
	subject := fmt.Sprintf("Inscription validée — %s", event.Title)
	when := event.Date
	if event.Time != "" {
		when = fmt.Sprintf("%s à %s", event.Date, event.Time)
	}
	text := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Votre inscription à « %s » est validée.\n\n"+
			"Date : %s\n"+
			"Lieu : %s\n\n"+
			"%s\n\n"+
			"À bientôt,\nLe centre Dorothy",
		reg.FirstName, event.Title, when, event.Location, event.Description,
	)
	html := fmt.Sprintf(
		`<p>Bonjour %s,</p>
<p>Votre inscription à <strong>%s</strong> est validée.</p>
<ul>
<li>Date : %s</li>
<li>Lieu : %s</li>
</ul>
<p>%s</p>
<p>À bientôt,<br>Le centre Dorothy</p>`,
		reg.FirstName, event.Title, when, event.Location, event.Description,
	)
	return Message{To: reg.Email, Subject: subject, HTML: html, Text: text}
}
