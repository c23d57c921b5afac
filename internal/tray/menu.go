package tray

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const menuInterface = "com.canonical.dbusmenu"

const (
	menuRootID  int32 = 0
	menuOpenID  int32 = 1
	menuCloseID int32 = 2

	menuRevision uint32 = 1

	eventClicked = "clicked"
)

// layoutNode is one node of the dbusmenu layout tree, wire type (ia{sv}av).
type layoutNode struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// groupProperty pairs an item ID with its properties, wire type (ia{sv}).
type groupProperty struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// menuEvent is one entry of an EventGroup batch, wire type (isvu).
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

// menu implements com.canonical.dbusmenu with two fixed items: open
// (restore) and close.
type menu struct {
	tray *Tray
}

func (m *menu) openLabel() string {
	return fmt.Sprintf("Open %s", m.tray.window.Title)
}

func (m *menu) closeLabel() string {
	return fmt.Sprintf("Close %s", m.tray.window.Title)
}

// GetLayout returns the static two-item menu.
func (m *menu) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, layoutNode, *dbus.Error) {
	openItem := layoutNode{
		ID: menuOpenID,
		Properties: map[string]dbus.Variant{
			"type":  dbus.MakeVariant("standard"),
			"label": dbus.MakeVariant(m.openLabel()),
		},
	}
	closeItem := layoutNode{
		ID: menuCloseID,
		Properties: map[string]dbus.Variant{
			"type":  dbus.MakeVariant("standard"),
			"label": dbus.MakeVariant(m.closeLabel()),
		},
	}

	root := layoutNode{
		ID: menuRootID,
		Properties: map[string]dbus.Variant{
			"children-display": dbus.MakeVariant("submenu"),
		},
		Children: []dbus.Variant{
			dbus.MakeVariant(openItem),
			dbus.MakeVariant(closeItem),
		},
	}

	return menuRevision, root, nil
}

// GetGroupProperties returns the properties for the requested item IDs.
// Unknown IDs are skipped.
func (m *menu) GetGroupProperties(ids []int32, propertyNames []string) ([]groupProperty, *dbus.Error) {
	result := make([]groupProperty, 0, len(ids))
	for _, id := range ids {
		var label string
		switch id {
		case menuOpenID:
			label = m.openLabel()
		case menuCloseID:
			label = m.closeLabel()
		default:
			continue
		}
		result = append(result, groupProperty{
			ID: id,
			Properties: map[string]dbus.Variant{
				"label":   dbus.MakeVariant(label),
				"enabled": dbus.MakeVariant(true),
				"visible": dbus.MakeVariant(true),
				"type":    dbus.MakeVariant("standard"),
			},
		})
	}
	return result, nil
}

// Event handles a single click. Kept for hosts that do not batch; Waybar
// calls EventGroup.
func (m *menu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	m.tray.log.Debug("Menu event received", "id", id, "event_id", eventID)
	if eventID != eventClicked {
		return nil
	}

	switch id {
	case menuOpenID:
		m.tray.emit(ActionRestore)
	case menuCloseID:
		m.tray.emit(ActionClose)
	default:
		m.tray.log.Debug("Click on unknown menu item", "id", id)
	}
	return nil
}

// EventGroup fans a batch of events into Event.
func (m *menu) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	m.tray.log.Debug("Menu event group received", "count", len(events))
	for _, ev := range events {
		m.Event(ev.ID, ev.EventID, ev.Data, ev.Timestamp)
	}
	return []int32{}, nil
}

// AboutToShow reports that nothing needs refreshing; the menu is static.
func (m *menu) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

// AboutToShowGroup is the batched form used by Waybar.
func (m *menu) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	m.tray.log.Debug("Menu about-to-show group received", "ids", ids)
	return []int32{}, []int32{}, nil
}

func (t *Tray) exportMenu() error {
	m := &menu{tray: t}
	if err := t.conn.Export(m, menuPath, menuInterface); err != nil {
		return fmt.Errorf("failed to export dbusmenu: %w", err)
	}

	propMap := prop.Map{
		menuInterface: {
			"Version":       constProp(uint32(3)),
			"TextDirection": constProp("ltr"),
			"Status":        constProp("normal"),
		},
	}
	if _, err := prop.Export(t.conn, menuPath, propMap); err != nil {
		return fmt.Errorf("failed to export menu properties: %w", err)
	}

	if err := t.conn.Export(introspect.Introspectable(menuIntrospectXML), menuPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export menu introspection: %w", err)
	}
	return nil
}

var menuIntrospectXML = `<node>
	<interface name="com.canonical.dbusmenu">
		<method name="GetLayout">
			<arg name="parentId" type="i" direction="in"/>
			<arg name="recursionDepth" type="i" direction="in"/>
			<arg name="propertyNames" type="as" direction="in"/>
			<arg name="revision" type="u" direction="out"/>
			<arg name="layout" type="(ia{sv}av)" direction="out"/>
		</method>
		<method name="GetGroupProperties">
			<arg name="ids" type="ai" direction="in"/>
			<arg name="propertyNames" type="as" direction="in"/>
			<arg name="properties" type="a(ia{sv})" direction="out"/>
		</method>
		<method name="Event">
			<arg name="id" type="i" direction="in"/>
			<arg name="eventId" type="s" direction="in"/>
			<arg name="data" type="v" direction="in"/>
			<arg name="timestamp" type="u" direction="in"/>
		</method>
		<method name="EventGroup">
			<arg name="events" type="a(isvu)" direction="in"/>
			<arg name="idErrors" type="ai" direction="out"/>
		</method>
		<method name="AboutToShow">
			<arg name="id" type="i" direction="in"/>
			<arg name="needUpdate" type="b" direction="out"/>
		</method>
		<method name="AboutToShowGroup">
			<arg name="ids" type="ai" direction="in"/>
			<arg name="updatesNeeded" type="ai" direction="out"/>
			<arg name="idErrors" type="ai" direction="out"/>
		</method>
		<property name="Version" type="u" access="read"/>
		<property name="TextDirection" type="s" access="read"/>
		<property name="Status" type="s" access="read"/>
	</interface>` +
	introspect.IntrospectDataString +
	prop.IntrospectDataString +
	`</node>`
