package sentiment

func buildLexicon() map[string]entry {
	return map[string]entry{
		// positive
		"bullish":      {0.9, 0.8},
		"rally":        {0.7, 0.5},
		"rallies":      {0.7, 0.5},
		"surge":        {0.7, 0.5},
		"surges":       {0.7, 0.5},
		"soar":         {0.8, 0.6},
		"soars":        {0.8, 0.6},
		"gain":         {0.5, 0.3},
		"gains":        {0.5, 0.3},
		"profit":       {0.5, 0.3},
		"profits":      {0.5, 0.3},
		"profitable":   {0.6, 0.4},
		"growth":       {0.5, 0.3},
		"grow":         {0.4, 0.3},
		"rise":         {0.4, 0.2},
		"rises":        {0.4, 0.2},
		"up":           {0.2, 0.1},
		"beat":         {0.6, 0.4},
		"beats":        {0.6, 0.4},
		"upgrade":      {0.6, 0.4},
		"upgraded":     {0.6, 0.4},
		"outperform":   {0.6, 0.5},
		"record":       {0.4, 0.3},
		"strong":       {0.5, 0.6},
		"stronger":     {0.5, 0.6},
		"robust":       {0.5, 0.6},
		"optimistic":   {0.6, 0.8},
		"positive":     {0.5, 0.6},
		"boost":        {0.5, 0.4},
		"boosts":       {0.5, 0.4},
		"breakthrough": {0.7, 0.6},
		"innovation":   {0.5, 0.5},
		"partnership":  {0.4, 0.3},
		"approved":     {0.5, 0.3},
		"approval":     {0.5, 0.3},
		"recovery":     {0.4, 0.4},
		"rebound":      {0.5, 0.4},
		"good":         {0.7, 0.6},
		"great":        {0.8, 0.75},
		"excellent":    {1.0, 1.0},
		"best":         {1.0, 0.3},
		"success":      {0.6, 0.5},
		"successful":   {0.7, 0.6},

		// negative
		"bearish":      {-0.9, 0.8},
		"crash":        {-0.9, 0.6},
		"crashes":      {-0.9, 0.6},
		"plunge":       {-0.8, 0.5},
		"plunges":      {-0.8, 0.5},
		"tumble":       {-0.7, 0.5},
		"tumbles":      {-0.7, 0.5},
		"fall":         {-0.4, 0.2},
		"falls":        {-0.4, 0.2},
		"drop":         {-0.4, 0.2},
		"drops":        {-0.4, 0.2},
		"decline":      {-0.5, 0.3},
		"declines":     {-0.5, 0.3},
		"down":         {-0.2, 0.1},
		"loss":         {-0.6, 0.3},
		"losses":       {-0.6, 0.3},
		"miss":         {-0.6, 0.4},
		"misses":       {-0.6, 0.4},
		"downgrade":    {-0.6, 0.4},
		"downgraded":   {-0.6, 0.4},
		"underperform": {-0.6, 0.5},
		"weak":         {-0.5, 0.6},
		"weaker":       {-0.5, 0.6},
		"pessimistic":  {-0.6, 0.8},
		"negative":     {-0.5, 0.6},
		"fear":         {-0.6, 0.7},
		"fears":        {-0.6, 0.7},
		"panic":        {-0.8, 0.8},
		"selloff":      {-0.7, 0.5},
		"lawsuit":      {-0.6, 0.3},
		"fraud":        {-0.9, 0.5},
		"probe":        {-0.4, 0.3},
		"recall":       {-0.5, 0.3},
		"layoffs":      {-0.6, 0.3},
		"bankruptcy":   {-0.9, 0.4},
		"recession":    {-0.7, 0.4},
		"risk":         {-0.3, 0.4},
		"risks":        {-0.3, 0.4},
		"volatile":     {-0.3, 0.5},
		"slump":        {-0.7, 0.5},
		"bad":          {-0.7, 0.67},
		"poor":         {-0.4, 0.6},
		"worst":        {-1.0, 1.0},
		"terrible":     {-1.0, 1.0},
		"fail":         {-0.5, 0.4},
		"fails":        {-0.5, 0.4},
		"failure":      {-0.6, 0.4},
	}
}

func buildIntensifiers() map[string]float64 {
	return map[string]float64{
		"very":          1.3,
		"extremely":     1.5,
		"really":        1.2,
		"highly":        1.3,
		"sharply":       1.4,
		"significantly": 1.3,
		"strongly":      1.3,
		"slightly":      0.5,
		"somewhat":      0.7,
		"modestly":      0.6,
	}
}

func buildNegations() map[string]struct{} {
	return set("not", "no", "never", "nor", "without", "hardly", "dont", "doesnt", "didnt", "isnt", "wasnt", "arent", "cant", "cannot", "wont")
}

// buildStopwords is the common English stopword list, minus negations.
func buildStopwords() map[string]struct{} {
	return set(
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
		"yourself", "yourselves", "he", "him", "his", "himself", "she", "her", "hers", "herself",
		"it", "its", "itself", "they", "them", "their", "theirs", "themselves", "what", "which",
		"who", "whom", "this", "that", "these", "those", "am", "is", "are", "was", "were", "be",
		"been", "being", "have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
		"the", "and", "but", "if", "or", "because", "as", "until", "while", "of", "at", "by",
		"for", "with", "about", "against", "between", "into", "through", "during", "before",
		"after", "above", "below", "to", "from", "up", "down", "in", "out", "on", "off", "over",
		"under", "again", "further", "then", "once", "here", "there", "when", "where", "why",
		"how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "such",
		"only", "own", "same", "so", "than", "too", "very", "s", "t", "can", "will", "just",
		"should", "now", "d", "ll", "m", "o", "re", "ve", "y",
	)
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
