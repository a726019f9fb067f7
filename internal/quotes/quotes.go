// Package quotes serves the motivational quote rotation.
package quotes

import "math/rand"

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var quotes = []Quote{
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Text: "You don't have to be great to start, but you have to start to be great.", Author: "Zig Ziglar"},
	{Text: "Small progress is still progress.", Author: "Unknown"},
	{Text: "Focus on being productive instead of busy.", Author: "Tim Ferriss"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt"},
	{Text: "Success is the sum of small efforts repeated day in and day out.", Author: "Robert Collier"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius"},
	{Text: "Great things never come from comfort zones.", Author: "Unknown"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	{Text: "Push yourself, because no one else is going to do it for you.", Author: "Unknown"},
	{Text: "Wake up with determination. Go to bed with satisfaction.", Author: "Unknown"},
	{Text: "A little progress each day adds up to big results.", Author: "Satya Nani"},
	{Text: "Start where you are. Use what you have. Do what you can.", Author: "Arthur Ashe"},
}

// Random picks any quote.
func Random() Quote {
	return quotes[rand.Intn(len(quotes))]
}

// Next picks a quote different from the one at prevIndex, returning the
// new index so the caller can chain refreshes without repeats.
func Next(prevIndex int) (Quote, int) {
	if len(quotes) == 1 {
		return quotes[0], 0
	}
	idx := prevIndex
	for idx == prevIndex {
		idx = rand.Intn(len(quotes))
	}
	return quotes[idx], idx
}
