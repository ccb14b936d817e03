package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"stock-analyzer/internal/models"
)

const systemPrompt = "Eres un analista financiero experto. Proporciona análisis concisos y profesionales."

// FallbackNarrative is returned when the language model is unreachable
// or its reply cannot be used.
const FallbackNarrative = "Análisis IA no disponible temporalmente"

// Request carries the analysis data the advisor reasons over.
type Request struct {
	Symbol       string
	Fundamentals models.FundamentalsSnapshot
	Indicators   models.IndicatorSet
	CurrentPrice *float64
}

// Advisor composes trading advice from a language model reply.
type Advisor struct {
	llm    LLMClient
	logger zerolog.Logger
}

// New creates an Advisor on top of an LLM client.
func New(llm LLMClient, logger zerolog.Logger) *Advisor {
	return &Advisor{
		llm:    llm,
		logger: logger,
	}
}

// Advise asks the language model for a recommendation. It never fails:
// when the model is unreachable or replies with garbage the fallback
// advice (HOLD) is returned instead.
func (a *Advisor) Advise(ctx context.Context, req Request) models.Advice {
	reply, err := a.llm.CompleteWithSystem(ctx, systemPrompt, BuildPrompt(req))
	if err != nil {
		a.logger.Error().Err(err).Str("symbol", req.Symbol).Msg("AI analysis failed")
		return models.Advice{
			Recommendation: models.Hold,
			Narrative:      FallbackNarrative,
		}
	}
	return ParseReply(reply)
}

// BuildPrompt renders the user prompt sent to the model. Unknown values
// appear as N/A so the model does not invent numbers.
func BuildPrompt(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analiza la siguiente acción: %s\n\n", req.Symbol)
	sb.WriteString("Datos técnicos:\n")
	fmt.Fprintf(&sb, "- Beta: %s\n", formatValue(req.Fundamentals.Beta))
	fmt.Fprintf(&sb, "- Dividend Yield: %s%%\n", formatValue(req.Fundamentals.DividendYield))
	fmt.Fprintf(&sb, "- P/E Ratio: %s\n", formatValue(req.Fundamentals.PERatio))
	fmt.Fprintf(&sb, "- PEG Ratio: %s\n", formatValue(req.Fundamentals.PEGRatio))
	fmt.Fprintf(&sb, "- ROE: %s%%\n", formatValue(req.Fundamentals.ROE))
	fmt.Fprintf(&sb, "- Profit Margin: %s%%\n", formatValue(req.Fundamentals.ProfitMargin))
	fmt.Fprintf(&sb, "- EMA 20: $%s\n", formatValue(req.Indicators.EMA20))
	fmt.Fprintf(&sb, "- EMA 50: $%s\n", formatValue(req.Indicators.EMA50))
	fmt.Fprintf(&sb, "- RSI: %s\n", formatValue(req.Fundamentals.RSI))
	fmt.Fprintf(&sb, "- Patrón de velas: %s\n", formatPattern(req.Indicators.CandlestickPattern))
	fmt.Fprintf(&sb, "- Precio actual: $%s\n", formatValue(req.CurrentPrice))
	fmt.Fprintf(&sb, "- Precio objetivo: $%s\n", formatValue(req.Fundamentals.TargetPrice))

	sb.WriteString(`
IMPORTANTE: Tu respuesta debe tener exactamente este formato:

RECOMENDACIÓN: [Escribe solo una de estas tres palabras: COMPRAR, VENDER o MANTENER]

ANÁLISIS:
[Proporciona un análisis breve de máximo 150 palabras sobre:
1. Potencial de inversión
2. Riesgos principales
3. Justificación de tu recomendación]
`)

	return sb.String()
}

func formatValue(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatPattern(pattern string) string {
	if pattern == "" {
		return "N/A"
	}
	return pattern
}

// ParseReply extracts the recommendation label and the narrative from a
// model reply. A reply without a recognizable label maps to HOLD, and a
// reply without an analysis marker becomes the narrative as a whole.
func ParseReply(reply string) models.Advice {
	reply = strings.TrimSpace(reply)

	recommendation := models.Hold
	for _, line := range strings.Split(reply, "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if !strings.HasPrefix(upper, "RECOMENDACIÓN:") && !strings.HasPrefix(upper, "RECOMENDACION:") {
			continue
		}
		_, label, _ := strings.Cut(upper, ":")
		switch {
		case strings.Contains(label, "COMPRAR"):
			recommendation = models.Buy
		case strings.Contains(label, "VENDER"):
			recommendation = models.Sell
		default:
			recommendation = models.Hold
		}
		break
	}

	narrative := reply
	for _, marker := range []string{"ANÁLISIS:", "ANALISIS:"} {
		if _, after, found := strings.Cut(reply, marker); found {
			narrative = strings.TrimSpace(after)
			break
		}
	}

	return models.Advice{
		Recommendation: recommendation,
		Narrative:      narrative,
	}
}
