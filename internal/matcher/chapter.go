package matcher

// ChapterSize is the number of targets in a chapter.
const ChapterSize = 20

// ChapterCount returns the number of chapters for a list of size targets.
func ChapterCount(size int) int {
	if size <= ChapterSize {
		return 1
	}
	count := size / ChapterSize
	if size%ChapterSize != 0 {
		count++
	}
	return count
}

// ChapterOf returns the 1-based chapter containing index.
func ChapterOf(index int) int {
	if index < 0 {
		return 1
	}
	return index/ChapterSize + 1
}

// ChapterBounds returns the half-open index range of a 1-based chapter.
func ChapterBounds(chapter, size int) (start, end int) {
	if chapter < 1 {
		chapter = 1
	}
	start = (chapter - 1) * ChapterSize
	end = chapter * ChapterSize
	if end > size {
		end = size
	}
	if start > end {
		start = end
	}
	return start, end
}

// IsChapterEnd reports whether index is the last target of its chapter or of the list.
func IsChapterEnd(index, size int) bool {
	return index == size-1 || (index+1)%ChapterSize == 0
}
