package notifier

import "time"

// DiscordEmbedBuilder helps in constructing DiscordEmbed objects.
type DiscordEmbedBuilder struct {
	embed DiscordEmbed
}

// NewDiscordEmbedBuilder creates a new instance of DiscordEmbedBuilder.
func NewDiscordEmbedBuilder() *DiscordEmbedBuilder {
	return &DiscordEmbedBuilder{}
}

// WithTitle sets the Title for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithTitle(title string) *DiscordEmbedBuilder {
	b.embed.Title = title
	return b
}

// WithDescription sets the Description for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithDescription(description string) *DiscordEmbedBuilder {
	b.embed.Description = description
	return b
}

// WithURL sets the URL for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithURL(url string) *DiscordEmbedBuilder {
	b.embed.URL = url
	return b
}

// WithTimestamp sets the Timestamp, formatted to ISO8601.
func (b *DiscordEmbedBuilder) WithTimestamp(timestamp time.Time) *DiscordEmbedBuilder {
	b.embed.Timestamp = timestamp.Format(time.RFC3339)
	return b
}

// WithColor sets the Color for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithColor(color int) *DiscordEmbedBuilder {
	b.embed.Color = color
	return b
}

// WithFooter sets the Footer for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithFooter(text string) *DiscordEmbedBuilder {
	b.embed.Footer = &DiscordEmbedFooter{Text: text}
	return b
}

// AddField adds a DiscordEmbedField to the DiscordEmbed.
func (b *DiscordEmbedBuilder) AddField(name string, value string, inline bool) *DiscordEmbedBuilder {
	b.embed.Fields = append(b.embed.Fields, DiscordEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

// Build returns the constructed DiscordEmbed object.
func (b *DiscordEmbedBuilder) Build() DiscordEmbed {
	return b.embed
}
