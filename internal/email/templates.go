package email

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

// Template identifica una plantilla transaccional.
type Template string

const (
	TplOTP              Template = "otp"
	TplInvitation       Template = "invitation"
	TplPaymentReceipt   Template = "payment_receipt"
	TplPaymentRejected  Template = "payment_rejected"
	TplDocumentApproved Template = "document_approved"
	TplDocumentRejected Template = "document_rejected"
)

type templateDef struct {
	Subject string
	HTML    string
	Text    string
}

// Los valores ingresados por usuarios pasan siempre por | escape en el HTML.
var builtin = map[Template]templateDef{
	TplOTP: {
		Subject: "Votre code {{ purpose_label }}",
		HTML: `<p>Bonjour {{ name | escape }},</p>
<p>Votre code est <strong>{{ code }}</strong>. Il expire dans {{ ttl_minutes }} minutes.</p>`,
		Text: "Votre code est {{ code }}. Il expire dans {{ ttl_minutes }} minutes.",
	},
	TplInvitation: {
		Subject: "Invitation à {{ residence }}",
		HTML: `<p>Bonjour {{ name | escape }},</p>
<p>Vous avez été ajouté(e) à la résidence <strong>{{ residence | escape }}</strong> (appartement {{ apartment | escape }}).</p>
<p><a href="{{ link }}">Activer mon compte</a></p>`,
		Text: "Vous avez été ajouté(e) à la résidence {{ residence }} (appartement {{ apartment }}). Activez votre compte: {{ link }}",
	},
	TplPaymentReceipt: {
		Subject: "Paiement confirmé: {{ amount }} {{ currency }}",
		HTML: `<p>Bonjour {{ name | escape }},</p>
<p>Votre paiement de <strong>{{ amount }} {{ currency }}</strong> a été vérifié.</p>
<ul>{% for a in allocations %}<li>{{ a.label | escape }}: {{ a.amount }} {{ currency }}</li>{% endfor %}</ul>
{% if credit != "0.00" %}<p>Crédit disponible: {{ credit }} {{ currency }}</p>{% endif %}`,
		Text: "Votre paiement de {{ amount }} {{ currency }} a été vérifié. Crédit disponible: {{ credit }} {{ currency }}.",
	},
	TplPaymentRejected: {
		Subject: "Paiement refusé",
		HTML: `<p>Bonjour {{ name | escape }},</p>
<p>Votre paiement de {{ amount }} {{ currency }} a été refusé.</p>
{% if reason != "" %}<p>Motif: {{ reason | escape }}</p>{% endif %}`,
		Text: "Votre paiement de {{ amount }} {{ currency }} a été refusé. {{ reason }}",
	},
	TplDocumentApproved: {
		Subject: "Votre résidence {{ residence }} est active",
		HTML: `<p>Bonjour {{ name | escape }},</p>
<p>Votre demande pour <strong>{{ residence | escape }}</strong> a été approuvée. Vous êtes maintenant syndic.</p>`,
		Text: "Votre demande pour {{ residence }} a été approuvée. Vous êtes maintenant syndic.",
	},
	TplDocumentRejected: {
		Subject: "Demande refusée: {{ residence }}",
		HTML: `<p>Bonjour {{ name | escape }},</p>
<p>Votre demande pour {{ residence | escape }} a été refusée.</p>
{% if note != "" %}<p>{{ note | escape }}</p>{% endif %}`,
		Text: "Votre demande pour {{ residence }} a été refusée. {{ note }}",
	},
}

// Renderer compila las plantillas liquid una sola vez y las cachea.
type Renderer struct {
	engine *liquid.Engine
	defs   map[Template]templateDef
	cache  sync.Map // "name/part" -> *liquid.Template
}

func NewRenderer() *Renderer {
	return &Renderer{engine: liquid.NewEngine(), defs: builtin}
}

// Override reemplaza una plantilla (usado por tests y branding por residencia).
func (r *Renderer) Override(name Template, subject, html, text string) {
	defs := make(map[Template]templateDef, len(r.defs))
	for k, v := range r.defs {
		defs[k] = v
	}
	defs[name] = templateDef{Subject: subject, HTML: html, Text: text}
	r.defs = defs
	r.cache.Range(func(k, _ any) bool {
		if strings.HasPrefix(k.(string), string(name)+"/") {
			r.cache.Delete(k)
		}
		return true
	})
}

func (r *Renderer) part(name Template, part, src string, vars map[string]any) (string, error) {
	key := string(name) + "/" + part
	if cached, ok := r.cache.Load(key); ok {
		out, err := cached.(*liquid.Template).RenderString(vars)
		if err != nil {
			return "", err
		}
		return out, nil
	}
	tpl, err := r.engine.ParseString(src)
	if err != nil {
		return "", err
	}
	r.cache.Store(key, tpl)
	out, rerr := tpl.RenderString(vars)
	if rerr != nil {
		return "", rerr
	}
	return out, nil
}

// Render arma el Message para to a partir de la plantilla name.
func (r *Renderer) Render(name Template, to string, vars map[string]any) (Message, error) {
	def, ok := r.defs[name]
	if !ok {
		return Message{}, fmt.Errorf("%w: unknown template %q", ErrTemplateRender, name)
	}
	subject, err := r.part(name, "subject", def.Subject, vars)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %s subject: %v", ErrTemplateRender, name, err)
	}
	html, err := r.part(name, "html", def.HTML, vars)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %s html: %v", ErrTemplateRender, name, err)
	}
	text, err := r.part(name, "text", def.Text, vars)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %s text: %v", ErrTemplateRender, name, err)
	}
	return Message{To: to, Subject: strings.TrimSpace(subject), HTML: html, Text: text}, nil
}
