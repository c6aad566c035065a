package mail

import (
	"fmt"
	"html"
	"strings"

	"filedrop/internal/server/drive"
)

// ConfirmationMessage builds the receipt email sent to the submitter,
// listing every stored file with its view link.
func ConfirmationMessage(to, nom, prenom string, files []drive.File) *Message {
	var textList strings.Builder
	for _, f := range files {
		fmt.Fprintf(&textList, "- %s: %s\n", f.Name, f.WebViewLink)
	}

	var htmlList strings.Builder
	for _, f := range files {
		fmt.Fprintf(&htmlList, `<li><a href="%s">%s</a></li>`,
			html.EscapeString(f.WebViewLink), html.EscapeString(f.Name))
	}

	return &Message{
		To:      to,
		Subject: "Confirmation de réception de vos fichiers",
		Text: fmt.Sprintf(
			"Bonjour %s %s,\n\nNous avons bien reçu vos fichiers :\n\n%s\nCordialement,\nL'équipe",
			prenom, nom, textList.String(),
		),
		HTML: fmt.Sprintf(
			"<h2>Bonjour %s %s,</h2><p>Nous avons bien reçu vos fichiers :</p><ul>%s</ul><p>Cordialement,<br>L'équipe</p>",
			html.EscapeString(prenom), html.EscapeString(nom), htmlList.String(),
		),
	}
}

// AdminMessage builds the internal notification summarizing a submission,
// with the same file list the submitter received.
func AdminMessage(to, nom, prenom, email, message string, files []drive.File) *Message {
	if message == "" {
		message = "Aucun"
	}

	var fileList strings.Builder
	for _, f := range files {
		fmt.Fprintf(&fileList, "- %s: %s\n", f.Name, f.WebViewLink)
	}

	return &Message{
		To:      to,
		Subject: fmt.Sprintf("Nouveaux fichiers de %s %s", prenom, nom),
		Text: fmt.Sprintf(
			"%s %s (%s) a uploadé %d fichier(s) :\n\n%s\nMessage: %s",
			prenom, nom, email, len(files), fileList.String(), message,
		),
	}
}
