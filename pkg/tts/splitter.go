package tts

// SplitText splits text into chunks of at most chunkSize runes, kept
// whole at sentence boundaries where possible. Long utterances get
// split before synthesis instead of truncated, so no narrative content
// is dropped.
func SplitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		return nil
	}

	var chunks []string
	runes := []rune(text)
	length := len(runes)
	var chunk []rune
	i := 0

	isSentenceEnd := func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}

	for i < length {
		// Start a new chunk if the current one is empty
		if len(chunk) == 0 {
			chunk = make([]rune, 0, chunkSize)
		}

		// Find the end of the current sentence
		j := i
		for j < length && !isSentenceEnd(runes[j]) {
			j++
		}
		// Include the sentence-ending punctuation
		if j < length && isSentenceEnd(runes[j]) {
			j++
		}

		// Check if adding this sentence exceeds the chunk size
		if len(chunk)+j-i > chunkSize {
			// If the chunk is empty, this sentence is too long; make it a chunk by itself
			if len(chunk) == 0 {
				chunks = append(chunks, string(runes[i:j]))
				chunk = nil
				i = j
				continue
			}
			// Otherwise, finalize the current chunk up to the previous sentence
			chunks = append(chunks, string(chunk))
			chunk = nil
			continue
		}

		// Add the sentence to the current chunk
		chunk = append(chunk, runes[i:j]...)
		i = j

		// If the chunk is full, add it to chunks and start a new chunk
		if len(chunk) == chunkSize {
			chunks = append(chunks, string(chunk))
			chunk = nil
		}
	}

	// Add any remaining text in the chunk
	if len(chunk) > 0 {
		chunks = append(chunks, string(chunk))
	}

	return chunks
}
