package usecase

import "payment-status-bot/internal/domain/model"

func (d *Dispatcher) button(key, token string) model.Button {
	return model.Button{Text: d.t.T(key), Token: token}
}

func (d *Dispatcher) mainMenuMarkup() *model.Markup {
	m := &model.Markup{}
	return m.
		Row(d.button("menu.check_status", TokenCheckStatus), d.button("menu.server_status", TokenServerStatus)).
		Row(d.button("menu.blacklist", TokenOpenBlacklistMenu), d.button("menu.descriptors", TokenOpenDescriptorsMenu)).
		Row(d.button("menu.help", TokenHelp))
}

func (d *Dispatcher) blacklistMenuMarkup() *model.Markup {
	m := &model.Markup{}
	for _, ft := range model.FilterTypes {
		m.Row(d.button("blacklist.filter."+ft.String(), TokenSelectBlacklistFilter+ft.String()))
	}
	return m.Row(d.button("menu.back", TokenOpenMainMenu))
}

func (d *Dispatcher) descriptorsMenuMarkup() *model.Markup {
	return model.NewMarkup(
		d.button("descriptors.search", TokenSearchDescriptors),
		d.button("descriptors.download", TokenDownloadDescriptors),
		d.button("menu.back", TokenOpenMainMenu),
	)
}

func (d *Dispatcher) orderRetryMarkup() *model.Markup {
	m := &model.Markup{}
	return m.Row(d.button("order.retry", TokenRetryOrder), d.button("order.cancel", TokenCancelOrder))
}

func (d *Dispatcher) emailRetryMarkup() *model.Markup {
	m := &model.Markup{}
	return m.Row(d.button("blacklist.retry", TokenRetryBlacklistEmail), d.button("blacklist.cancel", TokenCancelBlacklist))
}

func (d *Dispatcher) blacklistCancelMarkup() *model.Markup {
	return model.NewMarkup(d.button("blacklist.cancel", TokenCancelBlacklist))
}

func (d *Dispatcher) mainMenuAction(chatID int64) model.OutboundAction {
	return model.SendText(chatID, d.t.T("menu.prompt"), d.mainMenuMarkup())
}

// navigate swaps the buttons of the pressed message in place, or sends a
// fresh menu under the headerKey text when the press carried no message.
func (d *Dispatcher) navigate(ev model.InboundEvent, headerKey string, markup *model.Markup) model.OutboundAction {
	if ev.MessageID != 0 {
		return model.EditButtons(ev.ChatID, ev.MessageID, markup)
	}
	return model.SendText(ev.ChatID, d.t.T(headerKey), markup)
}
