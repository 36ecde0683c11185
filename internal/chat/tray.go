package chat

// Tray is the staging area for images and a reference URL before they are
// bound into an outgoing turn. It is not safe for concurrent use; the Service
// serializes access and only allows mutation while the pipeline is idle.
type Tray struct {
	images []string
	url    string
}

func (t *Tray) AttachImage(dataURI string) {
	if dataURI == "" {
		return
	}
	t.images = append(t.images, dataURI)
}

// RemoveImage removes the image at index i. Out-of-range indexes are ignored.
func (t *Tray) RemoveImage(i int) {
	if i < 0 || i >= len(t.images) {
		return
	}
	t.images = append(t.images[:i], t.images[i+1:]...)
}

// SetURL replaces the pending reference URL. An empty string clears it.
func (t *Tray) SetURL(url string) {
	t.url = url
}

func (t *Tray) Images() []string {
	out := make([]string, len(t.images))
	copy(out, t.images)
	return out
}

func (t *Tray) URL() string { return t.url }

func (t *Tray) Empty() bool { return len(t.images) == 0 && t.url == "" }

// Take returns the current contents and clears the tray in one step. The
// returned slice is owned by the caller; later tray mutations cannot touch it.
func (t *Tray) Take() (images []string, url string) {
	images = t.images
	url = t.url
	t.images = nil
	t.url = ""
	return images, url
}

// Clear drops all staged attachments.
func (t *Tray) Clear() {
	t.images = nil
	t.url = ""
}
